package views

import (
	"context"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/graph-gophers/dataloader"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const loaderKey = contextKey("account_loader")

// Accounts batches account lookups made while rendering one response into
// a single $in query per batch.
type Accounts struct {
	loader *dataloader.Loader
}

func NewAccounts(repo repositories.AccountRepository) *Accounts {
	batchFn := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		results := make([]*dataloader.Result, len(keys))

		ids := make([]primitive.ObjectID, 0, len(keys))
		for _, k := range keys {
			if id, err := primitive.ObjectIDFromHex(k.String()); err == nil {
				ids = append(ids, id)
			}
		}
		accounts, err := repo.GetByIDs(ctx, ids)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result{Error: err}
			}
			return results
		}

		byID := make(map[string]*models.Account, len(accounts))
		for i := range accounts {
			byID[accounts[i].ID.Hex()] = &accounts[i]
		}
		for i, k := range keys {
			// a nil Data marks a missing account
			results[i] = &dataloader.Result{Data: byID[k.String()]}
		}
		return results
	}

	return &Accounts{
		loader: dataloader.NewBatchedLoader(batchFn, dataloader.WithWait(time.Millisecond)),
	}
}

// Summaries resolves ids to summaries. Unknown ids map to UnknownAccount.
func (a *Accounts) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]AccountSummary, error) {
	out := make(map[primitive.ObjectID]AccountSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	unique := make([]string, 0, len(ids))
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id.Hex())
	}

	values, errs := a.loader.LoadMany(ctx, dataloader.NewKeysFromStrings(unique))()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	for i, v := range values {
		id, _ := primitive.ObjectIDFromHex(unique[i])
		acct, _ := v.(*models.Account)
		out[id] = Summary(acct)
	}
	return out, nil
}

// Summary resolves a single account.
func (a *Accounts) Summary(ctx context.Context, id primitive.ObjectID) (AccountSummary, error) {
	v, err := a.loader.Load(ctx, dataloader.StringKey(id.Hex()))()
	if err != nil {
		return AccountSummary{}, err
	}
	acct, _ := v.(*models.Account)
	return Summary(acct), nil
}

// LoaderMiddleware gives every request its own account loader, so the
// loader cache never outlives the request.
func LoaderMiddleware(repo repositories.AccountRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := context.WithValue(req.Context(), loaderKey, NewAccounts(repo))
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

// LoaderFor returns the request's loader, or nil outside LoaderMiddleware.
func LoaderFor(ctx context.Context) *Accounts {
	a, _ := ctx.Value(loaderKey).(*Accounts)
	return a
}
