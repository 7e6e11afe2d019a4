package store

import (
	"github.com/hashicorp/go-memdb"
)

// workRow is the memdb row shape. Pos is the insertion position from the
// sheet; iterating the primary index walks rows back in sheet order.
type workRow struct {
	Pos    int
	WorkID string
	Work   Work
}

var worksSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		"works": {
			Name: "works",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.IntFieldIndex{Field: "Pos"},
				},
				"workId": {
					Name:    "workId",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "WorkID"},
				},
			},
		},
	},
}

// Index is the in-memory works table backing the content endpoint
// between content-source refreshes.
type Index struct {
	db *memdb.MemDB
}

func NewIndex() (*Index, error) {
	db, err := memdb.NewMemDB(worksSchema)
	if err != nil {
		return nil, err
	}
	return &Index{db: db}, nil
}

// ReplaceAll swaps the table contents for the given works list.
func (idx *Index) ReplaceAll(works []Work) error {
	txn := idx.db.Txn(true)

	if _, err := txn.DeleteAll("works", "id"); err != nil {
		txn.Abort()
		return err
	}

	for pos, work := range works {
		row := &workRow{Pos: pos, WorkID: work.ID, Work: work}
		if err := txn.Insert("works", row); err != nil {
			txn.Abort()
			return err
		}
	}

	txn.Commit()
	return nil
}

// All returns every work in sheet order. An empty table yields nil.
func (idx *Index) All() ([]Work, error) {
	txn := idx.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get("works", "id")
	if err != nil {
		return nil, err
	}

	var works []Work
	for raw := it.Next(); raw != nil; raw = it.Next() {
		works = append(works, raw.(*workRow).Work)
	}
	return works, nil
}

// GetWork looks up a single work by its sheet id.
func (idx *Index) GetWork(workID string) (*Work, error) {
	txn := idx.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First("works", "workId", workID)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	work := raw.(*workRow).Work
	return &work, nil
}

// Clear empties the table; the next read falls through to cache or fetch.
func (idx *Index) Clear() error {
	txn := idx.db.Txn(true)
	if _, err := txn.DeleteAll("works", "id"); err != nil {
		txn.Abort()
		return err
	}
	txn.Commit()
	return nil
}
