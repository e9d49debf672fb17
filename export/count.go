package export

import (
	"context"

	"github.com/teranos/plaszyme/enzyme"
	"github.com/teranos/plaszyme/errors"
)

// Count is the number of corpus records a dataset selects.
type Count struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Filename string `json:"filename"`
	Count    int    `json:"count"`
}

// CountAll matches every record of src against each dataset in one pass.
// Counts follow the order of datasets.
func CountAll(ctx context.Context, datasets []Dataset, src RecordSource) ([]Count, error) {
	counts := make([]Count, len(datasets))
	for i, d := range datasets {
		counts[i] = Count{Key: d.Key, Title: d.Title, Filename: d.Filename}
	}

	err := src.Each(ctx, func(r enzyme.Record) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i, d := range datasets {
			if d.Match(r) {
				counts[i].Count++
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to count datasets")
	}
	return counts, nil
}
