package services

import (
	"context"
	"fmt"

	"github.com/agamariel/catering/internal/models"
	"github.com/agamariel/catering/internal/utils"
	"go.uber.org/zap"
)

// MenuResolver сверяет присланные клиентом позиции с каталогом цен.
type MenuResolver struct {
	sources []CatalogSource
	logger  *zap.SugaredLogger
}

// NewMenuResolver создаёт резолвер. Источники опрашиваются в переданном порядке,
// используется первый доступный.
func NewMenuResolver(logger *zap.SugaredLogger, sources ...CatalogSource) *MenuResolver {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &MenuResolver{sources: sources, logger: logger}
}

// ResolveMenuItems нормализует количество и клиентскую цену каждой позиции
// и проставляет ServerPrice для позиций, найденных в каталоге.
// Порядок позиций сохраняется, дубликаты id обрабатываются независимо.
func (r *MenuResolver) ResolveMenuItems(ctx context.Context, items []models.LineItem) ([]models.ResolvedLineItem, error) {
	resolved := make([]models.ResolvedLineItem, len(items))
	for i, item := range items {
		resolved[i] = models.ResolvedLineItem{
			ID:       item.ID,
			Name:     item.Name,
			Quantity: utils.NormalizeQuantity(item.Quantity),
			Price:    utils.RoundMoney(utils.NonNegative(item.Price)),
		}
	}
	if len(items) == 0 {
		return resolved, nil
	}

	catalog, err := r.activeCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if catalog == nil {
		r.logger.Warnw("no menu catalog available, using client prices", "items", len(items))
		return resolved, nil
	}

	ids := distinctIDs(items)
	if len(ids) == 0 {
		return resolved, nil
	}

	prices, err := catalog.PricesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup prices in %s: %w", catalog.Name(), err)
	}

	for i := range resolved {
		price, ok := prices[string(resolved[i].ID)]
		if !ok {
			continue
		}
		sp := utils.RoundMoney(price)
		resolved[i].ServerPrice = &sp
	}

	r.logger.Debugw("menu items resolved",
		"catalog", catalog.Name(),
		"items", len(items),
		"matched", len(prices),
	)

	return resolved, nil
}

// activeCatalog возвращает первый доступный источник или nil.
func (r *MenuResolver) activeCatalog(ctx context.Context) (CatalogSource, error) {
	for _, src := range r.sources {
		ok, err := src.Available(ctx)
		if err != nil {
			return nil, fmt.Errorf("probe catalog %s: %w", src.Name(), err)
		}
		if ok {
			return src, nil
		}
	}
	return nil, nil
}

// distinctIDs возвращает непустые id в порядке первого появления.
func distinctIDs(items []models.LineItem) []string {
	seen := make(map[models.ItemID]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		ids = append(ids, string(item.ID))
	}
	return ids
}
