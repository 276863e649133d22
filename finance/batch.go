package finance

import "gorm.io/gorm"

// BatchResult reports the outcome of one bulk-insert call. It is returned to
// the caller, never persisted.
type BatchResult struct {
	Created    int    `json:"created"`
	Skipped    int    `json:"skipped"`
	Total      int    `json:"total"`
	CreatedIDs []uint `json:"created_ids"`
}

// runBatch inserts every non-duplicate candidate inside a single
// transaction, walking the candidates sequentially so the duplicate check
// and the insert stay atomic with respect to each other.
//
// A true result from isDuplicate skips the candidate and counts it; that is
// expected, not a failure. Any error from either callback aborts the loop
// and rolls back everything inserted by this call.
func runBatch[T any](
	db *gorm.DB,
	candidates []T,
	isDuplicate func(tx *gorm.DB, c T) (bool, error),
	insert func(tx *gorm.DB, c T) (uint, error),
) (*BatchResult, error) {
	result := &BatchResult{Total: len(candidates)}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, c := range candidates {
			dup, err := isDuplicate(tx, c)
			if err != nil {
				return err
			}
			if dup {
				result.Skipped++
				continue
			}
			id, err := insert(tx, c)
			if err != nil {
				return err
			}
			result.Created++
			result.CreatedIDs = append(result.CreatedIDs, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
