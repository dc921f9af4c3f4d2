package domain

// FetchedDocument is the buffered payload of one proxied document. The whole
// body sits in memory between fetch and stream-back, which bounds usable
// document size to available memory.
type FetchedDocument struct {
	Body        []byte
	ContentType string
}
