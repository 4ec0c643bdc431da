package itemsclient

import "context"

type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ItemPath struct {
	ID string
}

type NewItem struct {
	Name string `json:"name"`
}

type CreateQuery struct {
	DryRun bool   `schema:"dry_run,omitempty"`
	Tag    string `schema:"tag,omitempty"`
}

type Deleted struct {
	Deleted bool `json:"deleted"`
}

type Status struct {
	Value string `json:"value"`
}

// Purger removes items.
type Purger interface {
	DeleteItemsID(ctx context.Context, pathParams *ItemPath) (Deleted, error)
}
