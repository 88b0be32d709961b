package model

// TierRule caps how many tickets a single booking may contain for a
// purchase category.  Keys are unique: tier1, tier2 or normal.
type TierRule struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	MaxTickets int    `json:"maxTickets"`
}

// GlobalConfig is the site-wide configuration entry managed in the CMS.
type GlobalConfig struct {
	GeoIPEndpoint   string          `json:"geoIpEndpoint"`
	PaymentGateways []string        `json:"paymentGateways"`
	FeatureFlags    map[string]bool `json:"featureFlags"`
}

// RecommendationRule maps user interest tags to the event tags that should
// be recommended for them.
type RecommendationRule struct {
	ID           string   `json:"id"`
	InterestTags []string `json:"interestTags"`
	EventTags    []string `json:"eventTags"`
}

// Banner is a promotional hero entry shown on the landing page.
type Banner struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Image    Asset  `json:"image"`
	Link     string `json:"link,omitempty"`
}
