package document

import (
	"time"

	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/serialize"
	"github.com/matzehuels/visualizeme/pkg/source"
	"github.com/matzehuels/visualizeme/pkg/store"
)

// Snapshot captures the document for a Store. The payload is wrapped
// JSON when metadata is present, plain JSON otherwise.
func (d *Document) Snapshot() (*store.Snapshot, error) {
	if d.Value == nil {
		return nil, errors.New(errors.ErrCodeEmptyDocument, "nothing to save")
	}
	var payload []byte
	if d.Metadata != nil {
		var err error
		if payload, err = serialize.Wrapped(d.Value, d.Metadata, time.Now()); err != nil {
			return nil, err
		}
	} else {
		payload = serialize.JSON(d.Value)
	}
	return &store.Snapshot{
		ID:        d.ID,
		Name:      d.Name,
		Mode:      string(d.Mode),
		Payload:   payload,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

// Restore rebuilds a document from a snapshot.
func Restore(s *store.Snapshot, parser *source.Parser) (*Document, error) {
	mode, err := source.ParseMode(s.Mode)
	if err != nil {
		return nil, err
	}
	res, err := source.Parse(string(s.Payload), source.ModeJSON)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "restore document %s", s.ID)
	}
	d := New(parser)
	d.ID = s.ID
	d.Name = s.Name
	d.Mode = mode
	d.Value = res.Value
	d.Metadata = res.Metadata
	if !s.CreatedAt.IsZero() {
		d.CreatedAt = s.CreatedAt
	}
	if !s.UpdatedAt.IsZero() {
		d.UpdatedAt = s.UpdatedAt
	}
	return d, nil
}
