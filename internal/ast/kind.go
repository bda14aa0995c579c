package ast

// Kind is the closed set of node kinds the rewrite engine reasons about.
// Grammar kinds outside this set convert to KindOther and keep their grammar
// name in Node.Type; anonymous grammar tokens convert to KindToken.
type Kind uint8

const (
	KindOther Kind = iota
	KindToken
	KindProgram
	KindComment

	// Statements
	KindExpressionStatement
	KindStatementBlock
	KindEmptyStatement
	KindVariableDeclaration
	KindLexicalDeclaration
	KindVariableDeclarator
	KindFunctionDeclaration
	KindGeneratorFunctionDeclaration
	KindClassDeclaration
	KindForStatement
	KindForInStatement
	KindCatchClause
	KindSwitchBody
	KindReturnStatement
	KindImportStatement
	KindExportStatement

	// Functions and classes
	KindFunctionExpression
	KindGeneratorFunction
	KindArrowFunction
	KindMethodDefinition
	KindFormalParameters
	KindClass
	KindClassBody
	KindClassStaticBlock

	// Expressions
	KindCallExpression
	KindArguments
	KindParenthesizedExpression
	KindMemberExpression
	KindSubscriptExpression
	KindAssignmentExpression
	KindAugmentedAssignmentExpression
	KindUpdateExpression
	KindUnaryExpression
	KindBinaryExpression
	KindSpreadElement
	KindObject
	KindPair

	// Names
	KindIdentifier
	KindPropertyIdentifier
	KindShorthandPropertyIdentifier
	KindShorthandPropertyIdentifierPattern

	// Patterns
	KindObjectPattern
	KindPairPattern
	KindObjectAssignmentPattern
	KindArrayPattern
	KindAssignmentPattern
	KindRestPattern

	// Literals
	KindNumber
	KindString
	KindRegex
	KindTrue
	KindFalse
	KindNull
	KindUndefined
	KindTemplateString
	KindTemplateSubstitution

	// Modules
	KindImportClause
	KindNamespaceImport
	KindNamedImports
	KindImportSpecifier
	KindExportClause
	KindExportSpecifier

	kindCount
)

// kindNames maps each Kind to its tree-sitter grammar name.
var kindNames = [kindCount]string{
	KindOther:                              "other",
	KindToken:                              "token",
	KindProgram:                            "program",
	KindComment:                            "comment",
	KindExpressionStatement:                "expression_statement",
	KindStatementBlock:                     "statement_block",
	KindEmptyStatement:                     "empty_statement",
	KindVariableDeclaration:                "variable_declaration",
	KindLexicalDeclaration:                 "lexical_declaration",
	KindVariableDeclarator:                 "variable_declarator",
	KindFunctionDeclaration:                "function_declaration",
	KindGeneratorFunctionDeclaration:       "generator_function_declaration",
	KindClassDeclaration:                   "class_declaration",
	KindForStatement:                       "for_statement",
	KindForInStatement:                     "for_in_statement",
	KindCatchClause:                        "catch_clause",
	KindSwitchBody:                         "switch_body",
	KindReturnStatement:                    "return_statement",
	KindImportStatement:                    "import_statement",
	KindExportStatement:                    "export_statement",
	KindFunctionExpression:                 "function_expression",
	KindGeneratorFunction:                  "generator_function",
	KindArrowFunction:                      "arrow_function",
	KindMethodDefinition:                   "method_definition",
	KindFormalParameters:                   "formal_parameters",
	KindClass:                              "class",
	KindClassBody:                          "class_body",
	KindClassStaticBlock:                   "class_static_block",
	KindCallExpression:                     "call_expression",
	KindArguments:                          "arguments",
	KindParenthesizedExpression:            "parenthesized_expression",
	KindMemberExpression:                   "member_expression",
	KindSubscriptExpression:                "subscript_expression",
	KindAssignmentExpression:               "assignment_expression",
	KindAugmentedAssignmentExpression:      "augmented_assignment_expression",
	KindUpdateExpression:                   "update_expression",
	KindUnaryExpression:                    "unary_expression",
	KindBinaryExpression:                   "binary_expression",
	KindSpreadElement:                      "spread_element",
	KindObject:                             "object",
	KindPair:                               "pair",
	KindIdentifier:                         "identifier",
	KindPropertyIdentifier:                 "property_identifier",
	KindShorthandPropertyIdentifier:        "shorthand_property_identifier",
	KindShorthandPropertyIdentifierPattern: "shorthand_property_identifier_pattern",
	KindObjectPattern:                      "object_pattern",
	KindPairPattern:                        "pair_pattern",
	KindObjectAssignmentPattern:            "object_assignment_pattern",
	KindArrayPattern:                       "array_pattern",
	KindAssignmentPattern:                  "assignment_pattern",
	KindRestPattern:                        "rest_pattern",
	KindNumber:                             "number",
	KindString:                             "string",
	KindRegex:                              "regex",
	KindTrue:                               "true",
	KindFalse:                              "false",
	KindNull:                               "null",
	KindUndefined:                          "undefined",
	KindTemplateString:                     "template_string",
	KindTemplateSubstitution:               "template_substitution",
	KindImportClause:                       "import_clause",
	KindNamespaceImport:                    "namespace_import",
	KindNamedImports:                       "named_imports",
	KindImportSpecifier:                    "import_specifier",
	KindExportClause:                       "export_clause",
	KindExportSpecifier:                    "export_specifier",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k := KindProgram; k < kindCount; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

// String returns the grammar name of the kind.
func (k Kind) String() string {
	if k >= kindCount {
		return "invalid"
	}
	return kindNames[k]
}

// KindOf maps a named grammar kind to its Kind. Unknown names map to KindOther.
func KindOf(grammarName string) Kind {
	if k, ok := kindByName[grammarName]; ok {
		return k
	}
	return KindOther
}

// IsFunction reports whether the kind introduces a function scope.
func (k Kind) IsFunction() bool {
	switch k {
	case KindFunctionDeclaration, KindGeneratorFunctionDeclaration,
		KindFunctionExpression, KindGeneratorFunction,
		KindArrowFunction, KindMethodDefinition:
		return true
	default:
		return false
	}
}

// IsFunctionExpression reports whether the kind is a function value usable as a callee.
func (k Kind) IsFunctionExpression() bool {
	switch k {
	case KindFunctionExpression, KindGeneratorFunction, KindArrowFunction:
		return true
	default:
		return false
	}
}

// IsLiteral reports whether the kind is a primitive literal.
// Template strings and undefined are not literals.
func (k Kind) IsLiteral() bool {
	switch k {
	case KindNumber, KindString, KindRegex, KindTrue, KindFalse, KindNull:
		return true
	default:
		return false
	}
}
