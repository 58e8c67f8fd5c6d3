package valueparser

const (
	DefaultEntrySeparator = ","
	DefaultKVSeparator    = ":"
	MapPartsCount         = 2
)
