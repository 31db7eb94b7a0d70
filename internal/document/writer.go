package document

// Directions accepted by WriteFormatted.
const (
	DirectionRTL = "rtl"
	DirectionLTR = "ltr"
)

// DefaultAlignment returns the conventional alignment for a text direction.
func DefaultAlignment(direction string) string {
	if direction == DirectionRTL {
		return "right"
	}
	return "left"
}

// WriteFormatted writes the text as a DOCX document at path, one paragraph
// per non-empty line, applying the given direction ("rtl"/"ltr") and
// horizontal alignment ("left", "center", "right", "justify").
func WriteFormatted(path, text, direction, alignment string) error {
	if alignment == "" {
		alignment = DefaultAlignment(direction)
	}
	return writeDOCX(path, text, direction, alignment)
}
