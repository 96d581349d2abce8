package dto

import (
	"pos/shared/constant"
	"pos/shared/model"
	"pos/shared/timezone"
)

// Metadata is the audit block embedded in every record response, rendered in restaurant time.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedBy string `json:"modified_by"`
}

func stamp(m model.Metadata) (created, modified string) {
	created = timezone.Format(m.CreatedAt, constant.DateFormat)

	if !m.ModifiedAt.IsZero() {
		modified = timezone.Format(m.ModifiedAt, constant.DateFormat)
	}

	return created, modified
}

func (m *Metadata) FromModel(source model.Metadata) {
	m.CreatedAt, m.ModifiedAt = stamp(source)
	m.CreatedBy = source.CreatedBy
	m.ModifiedBy = source.ModifiedBy
}
