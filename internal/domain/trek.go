package domain

// TrekDetails is packed into the `details` column as JSON.
// Every key is optional; a missing key decodes to nil.
type TrekDetails struct {
	Altitude       *string `json:"altitude"`
	Distance       *string `json:"distance"`
	Transportation *string `json:"transportation"`
	Meals          *string `json:"meals"`
	BestSeason     *string `json:"bestSeason"`
	TrekType       *string `json:"trekType"`
}

// Itinerary is packed into the `itinerary` column as JSON.
type Itinerary struct {
	DayHighlight *string `json:"dayHighlight"`
	DayExplain   *string `json:"dayExplain"`
}

// NewTrek is the write model handed to the repository.
// Image, Banner and MainImage hold storage-relative references (e.g. "uploads/<key>.jpg").
type NewTrek struct {
	Name            string
	Duration        *string
	Difficulty      *string
	RealPrice       float64
	DiscountedPrice float64
	Image           *string
	Banner          *string
	MainImage       *string
	Heading         *string
	Overview        *string
	Highlight       *string
	Details         TrekDetails
	Itinerary       Itinerary
}

// Trek is a persisted row. File references are never absolute URLs here;
// they are resolved when a view is built.
type Trek struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Duration        *string     `json:"duration"`
	Difficulty      *string     `json:"difficulty"`
	RealPrice       float64     `json:"realPrice"`
	DiscountedPrice float64     `json:"discountedPrice"`
	Image           *string     `json:"image"`
	Banner          *string     `json:"banner"`
	MainImage       *string     `json:"mainImage"`
	Heading         *string     `json:"heading"`
	Overview        *string     `json:"overview"`
	Highlight       *string     `json:"highlight"`
	Details         TrekDetails `json:"details"`
	Itinerary       Itinerary   `json:"itinerary"`
}

// TrekSummary is the stored projection used by the listing.
type TrekSummary struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Duration        *string `json:"duration"`
	Difficulty      *string `json:"difficulty"`
	RealPrice       float64 `json:"realPrice"`
	DiscountedPrice float64 `json:"discountedPrice"`
	Image           *string `json:"image"`
}

// Read models (URLs already resolved)

type TrekSummaryView struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Duration        *string `json:"duration"`
	Difficulty      *string `json:"difficulty"`
	RealPrice       float64 `json:"realPrice"`
	DiscountedPrice float64 `json:"discountedPrice"`
	Image           *string `json:"image"`
}

// TrekDetailView flattens details and itinerary next to the top-level fields.
type TrekDetailView struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Heading         *string `json:"heading"`
	Overview        *string `json:"overview"`
	Highlight       *string `json:"highlight"`
	Duration        *string `json:"duration"`
	Difficulty      *string `json:"difficulty"`
	RealPrice       float64 `json:"realPrice"`
	DiscountedPrice float64 `json:"discountedPrice"`
	Altitude        *string `json:"altitude"`
	Distance        *string `json:"distance"`
	Transportation  *string `json:"transportation"`
	Meals           *string `json:"meals"`
	BestSeason      *string `json:"bestSeason"`
	TrekType        *string `json:"trekType"`
	DayHighlight    *string `json:"dayHighlight"`
	DayExplain      *string `json:"dayExplain"`
	Image           *string `json:"image"`
	Banner          *string `json:"banner"`
	MainImage       *string `json:"mainImage"`
}

// TrekRecordView is returned by the create endpoint: the whole record,
// composites kept nested.
type TrekRecordView struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Duration        *string     `json:"duration"`
	Difficulty      *string     `json:"difficulty"`
	RealPrice       float64     `json:"realPrice"`
	DiscountedPrice float64     `json:"discountedPrice"`
	Image           *string     `json:"image"`
	Banner          *string     `json:"banner"`
	MainImage       *string     `json:"mainImage"`
	Heading         *string     `json:"heading"`
	Overview        *string     `json:"overview"`
	Highlight       *string     `json:"highlight"`
	Details         TrekDetails `json:"details"`
	Itinerary       Itinerary   `json:"itinerary"`
}
