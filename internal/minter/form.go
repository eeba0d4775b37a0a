package minter

// Form holds what the user entered before minting.
type Form struct {
	Name        string
	Description string

	ImageName string
	Image     []byte
}

// Reset clears every field, ready for the next token.
func (f *Form) Reset() {
	*f = Form{}
}
