package ast

var kindNames = map[Kind]string{
	KindMissing:            "Missing",
	KindIntegerLiteral:     "Integer",
	KindFloatLiteral:       "Float",
	KindRationalLiteral:    "Rational",
	KindImaginaryLiteral:   "Imaginary",
	KindStringLiteral:      "String",
	KindInterpolatedString: "InterpolatedString",
	KindSymbolLiteral:      "Symbol",
	KindInterpolatedSymbol: "InterpolatedSymbol",
	KindRegexpLiteral:      "Regexp",
	KindInterpolatedRegexp: "InterpolatedRegexp",
	KindWordsArray:         "WordsArray",
	KindSymbolsArray:       "SymbolsArray",
	KindArrayLiteral:       "Array",
	KindHashLiteral:        "Hash",
	KindHashPairNode:       "HashPair",
	KindRangeLiteral:       "Range",
	KindNilLiteral:         "Nil",
	KindTrueLiteral:        "True",
	KindFalseLiteral:       "False",
	KindSelfLiteral:        "Self",
	KindCharLiteral:        "Char",
	KindLocalVarRead:       "LocalVarRead",
	KindLocalVarWrite:      "LocalVarWrite",
	KindLocalVarTarget:     "LocalVarTarget",
	KindInstanceVarRead:    "InstanceVarRead",
	KindInstanceVarWrite:   "InstanceVarWrite",
	KindClassVarRead:       "ClassVarRead",
	KindClassVarWrite:      "ClassVarWrite",
	KindGlobalVarRead:      "GlobalVarRead",
	KindGlobalVarWrite:     "GlobalVarWrite",
	KindConstantRead:       "ConstantRead",
	KindConstantWrite:      "ConstantWrite",
	KindConstantPathRead:   "ConstantPathRead",
	KindConstantPathWrite:  "ConstantPathWrite",
	KindBackReferenceRead:  "BackReferenceRead",
	KindNumberedParamRead:  "NumberedParamRead",
	KindItParamRead:        "ItParamRead",
	KindMultiWrite:         "MultiWrite",
	KindMultiTarget:        "MultiTarget",
	KindSplatTarget:        "SplatTarget",
	KindOpAssign:           "OpAssign",
	KindOrAssign:           "OrAssign",
	KindAndAssign:          "AndAssign",
	KindIndexTarget:        "IndexTarget",
	KindCallTarget:         "CallTarget",
	KindMatchWrite:         "MatchWrite",
	KindCall:               "Call",
	KindCommandCall:        "CommandCall",
	KindSafeCall:           "SafeCall",
	KindIndexCall:          "IndexCall",
	KindSuperCall:          "SuperCall",
	KindZSuperCall:         "ZSuperCall",
	KindYield:              "Yield",
	KindBlock:              "Block",
	KindBlockParameters:    "BlockParameters",
	KindArgSplat:           "ArgSplat",
	KindArgDoubleSplat:     "ArgDoubleSplat",
	KindArgBlockPass:       "ArgBlockPass",
	KindArgAssoc:           "ArgAssoc",
	KindDef:                "Def",
	KindParameters:         "Parameters",
	KindRequiredParam:      "RequiredParam",
	KindOptionalParam:      "OptionalParam",
	KindRestParam:          "RestParam",
	KindKeywordParam:       "KeywordParam",
	KindKeywordRestParam:   "KeywordRestParam",
	KindBlockParam:         "BlockParam",
	KindForwardingParam:    "ForwardingParam",
	KindClassNode:          "Class",
	KindSingletonClassNode: "SingletonClass",
	KindModuleNode:         "Module",
	KindAlias:              "Alias",
	KindUndef:              "Undef",
	KindLambda:             "Lambda",
	KindStatements:         "Statements",
	KindIfNode:             "If",
	KindUnlessNode:         "Unless",
	KindWhileNode:          "While",
	KindUntilNode:          "Until",
	KindForNode:            "For",
	KindCaseNode:           "Case",
	KindWhenClause:         "When",
	KindCaseMatch:          "CaseMatch",
	KindInClause:           "In",
	KindBeginNode:          "Begin",
	KindRescueClause:       "Rescue",
	KindEnsureClause:       "Ensure",
	KindBreakNode:          "Break",
	KindNextNode:           "Next",
	KindRedoNode:           "Redo",
	KindRetryNode:          "Retry",
	KindReturnNode:         "Return",
	KindAndNode:            "And",
	KindOrNode:             "Or",
	KindNotNode:            "Not",
	KindDefinedNode:        "Defined",
	KindTernaryNode:        "Ternary",
	KindRescueModifier:     "RescueModifier",
	KindBeginBlock:         "BEGIN",
	KindEndBlock:           "END",
	KindArrayPattern:       "ArrayPattern",
	KindFindPattern:        "FindPattern",
	KindHashPattern:        "HashPattern",
	KindAlternationPattern: "AlternationPattern",
	KindCapturePattern:     "CapturePattern",
	KindPinPattern:         "PinPattern",
	KindMatchPredicate:     "MatchPredicate",
	KindMatchRequired:      "MatchRequired",
	KindMultiWriteLHS:      "MultiWriteLHS",
	KindPreExec:            "PreExec",
	KindPostExec:           "PostExec",
}

// String returns the node-kind name used in AST dumps and diagnostics.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(?)"
}
