package country

import (
	"context"
	"errors"
	"fmt"

	"prompt-console/core/docstore"
	"prompt-console/core/reconcile"
	"prompt-console/core/utils"
)

const (
	// CollectionCountries holds the per-country documents.
	CollectionCountries = "countries"

	// CollectionCategories is the category catalog.
	CollectionCategories = "categories"

	// FieldCategories is the ordered array of category ids on a country
	// document.
	FieldCategories = "categories"
)

// CategoryLive reports whether a category id refers to a category that
// exists and is not soft-deleted. Unlike account references, a soft-deleted
// category must disappear from country listings immediately.
func CategoryLive(client docstore.Client) reconcile.ValidityFunc {
	return func(ctx context.Context, id string) (bool, error) {
		doc, err := client.Get(ctx, CollectionCategories, id)
		if errors.Is(err, docstore.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("failed to check category %s: %w", id, err)
		}
		return !utils.ToBool(doc.Fields["deleted"]), nil
	}
}

// CategorySweep reconciles the categories array of every country against the
// category catalog.
func CategorySweep(client docstore.Client) reconcile.Spec {
	return reconcile.Spec{
		Name:             "categories",
		ParentCollection: CollectionCountries,
		Source: func(parent docstore.Document) reconcile.MembershipSource {
			return reconcile.NewArrayFieldSource(client, CollectionCountries, parent, FieldCategories)
		},
		Valid: CategoryLive(client),
	}
}
