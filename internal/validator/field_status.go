package validator

// Field validation states shown next to each field during verification.
const (
	FieldStatusValid   = "valid"
	FieldStatusUnsure  = "unsure"
	FieldStatusInvalid = "invalid"
)

// FieldStatus represents the computed validation state for a single field path.
type FieldStatus struct {
	Status   string   `json:"status"`
	Messages []string `json:"messages"`
}

// ComputeFieldStatuses derives per-field statuses from results. A failed
// error check marks the field invalid; a failed warning marks it unsure.
func ComputeFieldStatuses(results []Result) map[string]*FieldStatus {
	statuses := make(map[string]*FieldStatus)
	for _, r := range results {
		fs, ok := statuses[r.FieldPath]
		if !ok {
			fs = &FieldStatus{Status: FieldStatusValid, Messages: []string{}}
			statuses[r.FieldPath] = fs
		}
		if r.Passed {
			continue
		}
		if r.Severity == SeverityError {
			fs.Status = FieldStatusInvalid
		} else if fs.Status != FieldStatusInvalid {
			fs.Status = FieldStatusUnsure
		}
		fs.Messages = append(fs.Messages, r.Message)
	}
	return statuses
}
