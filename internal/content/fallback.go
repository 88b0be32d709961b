package content

import (
	"time"

	"github.com/iliyamo/booksphere/internal/model"
)

// The fallback dataset is served whenever the content source is
// unconfigured or failing.  Each accessor returns a fresh copy.

func fallbackEvents() []model.Event {
	return []model.Event{
		{
			ID:       "evt_rockwave",
			Slug:     "rockwave-2026",
			Title:    "RockWave Live 2026",
			Type:     "concert",
			Currency: "USD",
			Schedule: model.Schedule{
				StartAt:        time.Date(2026, 2, 18, 20, 0, 0, 0, time.UTC),
				BookingOpensAt: time.Date(2026, 2, 18, 10, 0, 0, 0, time.UTC),
			},
			Venue: model.Venue{
				Name:     "Aurora Dome",
				Address:  "12 Horizon Ave",
				City:     "Austin",
				Country:  "USA",
				Location: &model.GeoPoint{Lat: 30.2672, Lng: -97.7431},
			},
			Tags:       []string{"rock", "live", "featured"},
			IsPromoted: true,
			Banner: &model.Asset{
				URL:   "https://images.contentstack.io/v3/assets/mock/banner-rock.jpg",
				Title: "RockWave Live",
			},
			SeatMap: model.SeatMap{
				ID:          "seatmap_rockwave",
				Orientation: "stage_top",
				Zones: []model.SeatZone{
					{ID: "vip", Label: "VIP", DistanceFactor: 0.2, BasePrice: 240, Rows: 4, Cols: 8},
					{ID: "gold", Label: "Gold", DistanceFactor: 0.5, BasePrice: 180, Rows: 6, Cols: 10},
					{ID: "silver", Label: "Silver", DistanceFactor: 0.9, BasePrice: 120, Rows: 8, Cols: 12},
				},
			},
			BasePrice:        240,
			PriceCurve:       model.DecreaseWithDistance,
			ParkingAvailable: true,
		},
	}
}

func fallbackBanners() []model.Banner {
	return []model.Banner{
		{
			ID:       "bnr_1",
			Title:    "Concerts that feel cinematic",
			Subtitle: "Book premium seats before they sell out",
			Image: model.Asset{
				URL:   "https://images.contentstack.io/v3/assets/mock/hero-1.jpg",
				Title: "Concert hero",
			},
			Link: "/event/rockwave-2026",
		},
	}
}

func fallbackGlobalConfig() model.GlobalConfig {
	return model.GlobalConfig{
		GeoIPEndpoint:   "https://ipapi.co/json/",
		PaymentGateways: []string{"Card", "UPI", "NetBanking", "Wallet"},
		FeatureFlags:    map[string]bool{"parking": true, "discounts": true, "recommendations": true},
	}
}

func fallbackTierRules() []model.TierRule {
	return []model.TierRule{
		{Key: "tier1", Label: "Platinum Pulse", MaxTickets: 25},
		{Key: "tier2", Label: "Golden Groove", MaxTickets: 14},
		{Key: "normal", Label: "Rhythm Access", MaxTickets: 9},
	}
}

func fallbackRecommendations() []model.RecommendationRule {
	return []model.RecommendationRule{
		{ID: "rec_1", InterestTags: []string{"rock"}, EventTags: []string{"featured", "rock"}},
	}
}
