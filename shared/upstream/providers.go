package upstream

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dfryer1193/signage/signage/domain"
)

// MediaProvider adapts the news feed into promotion image records.
type MediaProvider struct {
	client *Client
}

func NewMediaProvider(client *Client) *MediaProvider {
	return &MediaProvider{client: client}
}

func (p *MediaProvider) Records(ctx context.Context) ([]domain.Record[domain.MediaMeta], error) {
	blocks, err := p.client.news(ctx)
	if err != nil {
		return nil, err
	}

	var records []domain.Record[domain.MediaMeta]
	for _, block := range blocks {
		for _, promo := range block.Promotion {
			if promo.Image == "" {
				continue
			}

			records = append(records, domain.Record[domain.MediaMeta]{
				Name:     promo.Name,
				RawImage: promo.Image,
				Meta: domain.MediaMeta{
					Name:        promo.Name,
					Description: promo.Description,
					DateStart:   promo.DateStart,
					DateEnd:     promo.DateEnd,
				},
			})
		}
	}
	return records, nil
}

// OutletProvider joins session images against the outlet directory by
// normalized name. Images with no matching outlet are skipped rather than
// served with partial metadata.
type OutletProvider struct {
	client *Client
}

func NewOutletProvider(client *Client) *OutletProvider {
	return &OutletProvider{client: client}
}

func (p *OutletProvider) Records(ctx context.Context) ([]domain.Record[domain.OutletMeta], error) {
	outlets, err := p.client.Outlets(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]domain.Outlet, len(outlets))
	for _, o := range outlets {
		byName[normalizeName(o.Name)] = o
	}

	images, err := p.client.orderSessions(ctx)
	if err != nil {
		return nil, err
	}

	var records []domain.Record[domain.OutletMeta]
	for _, img := range images {
		name := strings.TrimSpace(img.Name)
		if name == "" || img.Image == "" {
			continue
		}

		outlet, ok := byName[normalizeName(name)]
		if !ok {
			log.Debug().Str("name", name).Msg("No outlet match for image")
			continue
		}

		records = append(records, domain.Record[domain.OutletMeta]{
			Name:     name,
			RawImage: img.Image,
			Meta: domain.OutletMeta{
				OutletID:   outlet.ID,
				OutletName: outlet.Name,
				RegionName: outlet.RegionName,
			},
		})
	}
	return records, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
