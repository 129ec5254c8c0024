package content

import (
	"context"

	"github.com/roar-center/roar-web/internal/campusmap"
)

// LoadDataset reads the campus map dataset. It satisfies campusmap.DatasetLoader.
func (l *Loader) LoadDataset(ctx context.Context) (campusmap.Dataset, error) {
	data, err := l.Bytes(ctx, DatasetPath)
	if err != nil {
		return campusmap.Dataset{}, err
	}
	return campusmap.DecodeDataset(data)
}

var _ campusmap.DatasetLoader = (*Loader)(nil)
