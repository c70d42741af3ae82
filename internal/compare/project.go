package compare

import (
	"fmt"

	"github.com/ralt/pkgcompare/internal/models"
)

// Projection reduces package mappings to the fields emitted in reports.
type Projection int

const (
	// ProjectGrouped keeps name, version, release and arch only
	ProjectGrouped Projection = iota
	// ProjectFlat drops epoch, disttag, arch and buildtime and keeps everything else
	ProjectFlat
)

var groupedFields = []string{
	models.FieldName,
	models.FieldVersion,
	models.FieldRelease,
	models.FieldArch,
}

var flatDropped = map[string]struct{}{
	models.FieldEpoch:     {},
	models.FieldDisttag:   {},
	models.FieldArch:      {},
	models.FieldBuildTime: {},
}

// Apply projects every entry of records, preserving order.
func (p Projection) Apply(records []models.Fields) ([]models.Fields, error) {
	out := make([]models.Fields, 0, len(records))
	for i, rec := range records {
		projected, err := p.project(rec)
		if err != nil {
			return nil, models.NewError(models.ErrProjection, fmt.Sprintf("entry #%d", i), err)
		}
		out = append(out, projected)
	}
	return out, nil
}

func (p Projection) project(rec models.Fields) (models.Fields, error) {
	if rec == nil {
		return nil, fmt.Errorf("nil package mapping")
	}

	switch p {
	case ProjectGrouped:
		out := make(models.Fields, len(groupedFields))
		for _, k := range groupedFields {
			v, ok := rec[k]
			if !ok {
				return nil, fmt.Errorf("missing field %q", k)
			}
			out[k] = v
		}
		return out, nil
	case ProjectFlat:
		out := make(models.Fields, len(rec))
		for k, v := range rec {
			if _, drop := flatDropped[k]; !drop {
				out[k] = v
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown projection %d", p)
	}
}
