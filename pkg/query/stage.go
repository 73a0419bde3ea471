package query

// Stage is the configuration step a Builder has reached.
// Stages only move forward.
type Stage int

// Builder stages in protocol order.
const (
	StageUnconfigured Stage = iota
	StageDataSourceSet
	StageQuerySet
	StageMapperSet
)

func (s Stage) String() string {
	switch s {
	case StageUnconfigured:
		return "Unconfigured"
	case StageDataSourceSet:
		return "DataSourceSet"
	case StageQuerySet:
		return "QuerySet"
	case StageMapperSet:
		return "MapperSet"
	default:
		return "Unknown"
	}
}

// QuerySpec is an accepted query text with its positional parameters.
// Params is nil when the query has none.
type QuerySpec struct {
	Text   string
	Params []any
}
