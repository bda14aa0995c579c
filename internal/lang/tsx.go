package lang

func init() {
	Register(&LanguageSpec{
		Language:              TSX,
		FileExtensions:        []string{".tsx"},
		ParameterWrapperTypes: []string{"required_parameter", "optional_parameter"},
	})
}
