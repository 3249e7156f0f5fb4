package export

// Dataset defines tabular export content. Column order follows Headers;
// rows are keyed by header name so sparse cells render empty.
type Dataset struct {
	Title   string
	Headers []string
	Rows    []map[string]string
}
