package pipeline

import (
	"encoding/json"

	"github.com/valpere/recast/internal"
)

// Records flattens the run into the rows kept in history. A failed platform
// becomes a single draft row carrying its error.
func (r *Run) Records() (internal.RunRecord, []internal.DraftRecord, error) {
	rec := internal.RunRecord{
		RunRequest: r.RunRequest,
		Duration:   r.Duration,
	}
	if r.Core != nil {
		rec.Topic = r.Core.Topic
		rec.Thesis = r.Core.Thesis
	}

	var drafts []internal.DraftRecord
	for _, res := range r.Results {
		if len(res.Drafts) == 0 {
			drafts = append(drafts, internal.DraftRecord{
				RunID:    r.ID,
				Platform: res.Platform,
				Error:    res.Error,
			})
			continue
		}
		for i, d := range res.Drafts {
			meta, err := json.Marshal(d.Metadata)
			if err != nil {
				return rec, nil, err
			}
			drafts = append(drafts, internal.DraftRecord{
				RunID:     r.ID,
				Platform:  res.Platform,
				Variant:   i,
				Raw:       d.Raw,
				Humanized: d.Text,
				Selected:  i == res.Selected,
				Metadata:  string(meta),
				Error:     res.Error,
			})
		}
	}

	return rec, drafts, nil
}
