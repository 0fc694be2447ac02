package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ecodeclub/ekit/slice"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/khrees2412/jobdash/internal/storage"
	"github.com/khrees2412/jobdash/pkg/models"
)

// CacheVersion tags every cached payload. Slots written with any other
// version are ignored on restore.
const CacheVersion = 1

var (
	errCorruptSlot  = errors.New("cache slot is not valid json")
	errSlotVersion  = errors.New("cache slot has an unsupported version")
	errSlotNoData   = errors.New("cache slot has no data")
	errSlotDataType = errors.New("cache slot data has the wrong shape")
)

// Cache persists the last search so it can be shown again on the next start
type Cache struct {
	store  storage.Store
	logger *slog.Logger
}

func NewCache(store storage.Store, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{store: store, logger: logger.With("component", "cache")}
}

// Restored holds whatever could be read back. A nil field means its slot was
// empty or unreadable.
type Restored struct {
	Criteria *models.SearchCriteria
	Jobs     []models.JobListing
}

// Save writes both slots together
func (c *Cache) Save(ctx context.Context, criteria models.SearchCriteria, jobs []models.JobListing) error {
	if jobs == nil {
		jobs = []models.JobListing{}
	}
	jobsSlot, err := wrapSlot(jobs)
	if err != nil {
		return err
	}
	criteriaSlot, err := wrapSlot(criteria)
	if err != nil {
		return err
	}
	return c.store.SetMany(ctx, map[string]string{
		storage.KeyCachedJobs: jobsSlot,
		storage.KeyLastSearch: criteriaSlot,
	})
}

// Restore reads each slot on its own. A slot that cannot be read is logged
// and skipped; it never affects the other slot.
func (c *Cache) Restore(ctx context.Context) Restored {
	var out Restored

	if data, ok := c.readSlot(ctx, storage.KeyCachedJobs); ok {
		var jobs []models.JobListing
		if err := decodeSlot(data, gjson.JSON, &jobs, data.IsArray()); err != nil {
			c.logger.Warn("skipping cached jobs", "key", storage.KeyCachedJobs, "error", err)
		} else {
			if jobs == nil {
				jobs = []models.JobListing{}
			}
			// a slot may carry only one score alias
			out.Jobs = slice.Map(jobs, func(_ int, j models.JobListing) models.JobListing {
				j.SetScore(j.Score())
				return j
			})
		}
	}

	if data, ok := c.readSlot(ctx, storage.KeyLastSearch); ok {
		var criteria models.SearchCriteria
		if err := decodeSlot(data, gjson.JSON, &criteria, data.IsObject()); err != nil {
			c.logger.Warn("skipping last search", "key", storage.KeyLastSearch, "error", err)
		} else {
			out.Criteria = &criteria
		}
	}

	return out
}

// Clear removes both slots
func (c *Cache) Clear(ctx context.Context) error {
	return c.store.Remove(ctx, storage.KeyCachedJobs, storage.KeyLastSearch)
}

func (c *Cache) readSlot(ctx context.Context, key string) (gjson.Result, bool) {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("failed to read cache slot", "key", key, "error", err)
		return gjson.Result{}, false
	}
	if !ok || raw == "" {
		return gjson.Result{}, false
	}
	data, err := unwrapSlot(raw)
	if err != nil {
		c.logger.Warn("skipping cache slot", "key", key, "error", err)
		return gjson.Result{}, false
	}
	return data, true
}

func wrapSlot(payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode cache payload: %w", err)
	}
	env, err := sjson.Set("", "version", CacheVersion)
	if err != nil {
		return "", err
	}
	return sjson.SetRaw(env, "data", string(data))
}

func unwrapSlot(raw string) (gjson.Result, error) {
	if !gjson.Valid(raw) {
		return gjson.Result{}, errCorruptSlot
	}
	env := gjson.Parse(raw)
	if v := env.Get("version"); v.Type != gjson.Number || v.Int() != CacheVersion {
		return gjson.Result{}, errSlotVersion
	}
	data := env.Get("data")
	if !data.Exists() {
		return gjson.Result{}, errSlotNoData
	}
	return data, nil
}

func decodeSlot(data gjson.Result, want gjson.Type, dst any, shapeOK bool) error {
	if data.Type != want || !shapeOK {
		return errSlotDataType
	}
	if err := json.Unmarshal([]byte(data.Raw), dst); err != nil {
		return fmt.Errorf("%w: %v", errSlotDataType, err)
	}
	return nil
}
