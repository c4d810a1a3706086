package daos

// Reserved query-string keys. Every other key is a filter or logic key.
var reservedKeys = map[string]bool{
	"select":      true,
	"order":       true,
	"limit":       true,
	"offset":      true,
	"on_conflict": true,
	"columns":     true,
	"returning":   true,
}

// logicKeys recognizes the four logic-tree wrapper keys, matched
// case-insensitively against the lower-cased query key.
var logicKeys = map[string]LogicOperator{
	"and":     LogicAnd,
	"or":      LogicOr,
	"not.and": LogicAnd,
	"not.or":  LogicOr,
}

func isNegatedLogicKey(lower string) bool {
	return lower == "not.and" || lower == "not.or"
}

// filterOperatorNames is the closed set of 24 operators, matched
// case-insensitively on parse.
var filterOperatorNames = map[string]FilterOperator{
	"eq":     OpEq,
	"neq":    OpNeq,
	"gt":     OpGt,
	"gte":    OpGte,
	"lt":     OpLt,
	"lte":    OpLte,
	"like":   OpLike,
	"ilike":  OpIlike,
	"match":  OpMatch,
	"imatch": OpImatch,
	"in":     OpIn,
	"is":     OpIs,
	"fts":    OpFts,
	"plfts":  OpPlfts,
	"phfts":  OpPhfts,
	"wfts":   OpWfts,
	"cs":     OpCs,
	"cd":     OpCd,
	"ov":     OpOv,
	"sl":     OpSl,
	"sr":     OpSr,
	"nxl":    OpNxl,
	"nxr":    OpNxr,
	"adj":    OpAdj,
}

// DefaultMaxNestingDepth caps logic-tree and select-embedding recursion
// when a caller doesn't supply its own bound.
const DefaultMaxNestingDepth = 32

// DefaultFTSLanguage is substituted when a filter's language tag is absent.
const DefaultFTSLanguage = "english"
