package app

import (
	"strconv"
	"strings"

	"github.com/Harsh636/TravelUttarakhandBackend/internal/domain"
)

/********** form -> submission **********/

// NewSubmission reads the scalar fields of a create form. A key that is
// absent stays nil; a key sent with an empty value is kept as "". Text is
// kept byte for byte; only the prices are trimmed, since they are parsed.
func NewSubmission(values map[string][]string) Submission {
	opt := func(k string) *string {
		if v, ok := values[k]; ok && len(v) > 0 {
			s := v[0]
			return &s
		}
		return nil
	}
	req := func(k string) string {
		if p := opt(k); p != nil {
			return *p
		}
		return ""
	}
	price := func(k string) string { return strings.TrimSpace(req(k)) }
	return Submission{
		Name:             req("name"),
		Duration:         opt("duration"),
		Difficulty:       opt("difficulty"),
		RealPrice:        price("realPrice"),
		DiscountedPrice:  price("discountedPrice"),
		Heading:          opt("heading"),
		Overview:         opt("overview"),
		Highlight:        opt("highlight"),
		Itinerary:        opt("itinerary"),
		ItineraryDetails: opt("itinerary_details"),
		Altitude:         opt("altitude"),
		Distance:         opt("distance"),
		Transportation:   opt("transportation"),
		Meals:            opt("meals"),
		Season:           opt("season"),
		TrekType:         opt("trek_type"),
	}
}

/********** submission -> write model **********/

// toNewTrek expects a validated submission; refs maps file field -> stored reference.
func toNewTrek(s Submission, refs map[string]string) (domain.NewTrek, error) {
	rp, err := parsePrice(s.RealPrice)
	if err != nil {
		return domain.NewTrek{}, &domain.ValidationError{Fields: map[string]string{"realPrice": "must be a non-negative number"}}
	}
	dp, err := parsePrice(s.DiscountedPrice)
	if err != nil {
		return domain.NewTrek{}, &domain.ValidationError{Fields: map[string]string{"discountedPrice": "must be a non-negative number"}}
	}
	return domain.NewTrek{
		Name:            s.Name,
		Duration:        s.Duration,
		Difficulty:      s.Difficulty,
		RealPrice:       rp,
		DiscountedPrice: dp,
		Image:           refPtr(refs, FieldImage),
		Banner:          refPtr(refs, FieldBanner),
		MainImage:       refPtr(refs, FieldMainImage),
		Heading:         s.Heading,
		Overview:        s.Overview,
		Highlight:       s.Highlight,
		Details: domain.TrekDetails{
			Altitude:       s.Altitude,
			Distance:       s.Distance,
			Transportation: s.Transportation,
			Meals:          s.Meals,
			BestSeason:     s.Season,
			TrekType:       s.TrekType,
		},
		Itinerary: domain.Itinerary{
			DayHighlight: s.Itinerary,
			DayExplain:   s.ItineraryDetails,
		},
	}, nil
}

func refPtr(refs map[string]string, field string) *string {
	if r, ok := refs[field]; ok && r != "" {
		return &r
	}
	return nil
}

/********** stored -> views **********/

func recordView(t domain.Trek, l LinkResolver) domain.TrekRecordView {
	return domain.TrekRecordView{
		ID:              t.ID,
		Name:            t.Name,
		Duration:        t.Duration,
		Difficulty:      t.Difficulty,
		RealPrice:       t.RealPrice,
		DiscountedPrice: t.DiscountedPrice,
		Image:           l.Resolve(t.Image),
		Banner:          l.Resolve(t.Banner),
		MainImage:       l.Resolve(t.MainImage),
		Heading:         t.Heading,
		Overview:        t.Overview,
		Highlight:       t.Highlight,
		Details:         t.Details,
		Itinerary:       t.Itinerary,
	}
}

func summaryViews(in []domain.TrekSummary, l LinkResolver) []domain.TrekSummaryView {
	out := make([]domain.TrekSummaryView, 0, len(in))
	for _, t := range in {
		out = append(out, domain.TrekSummaryView{
			ID:              t.ID,
			Name:            t.Name,
			Duration:        t.Duration,
			Difficulty:      t.Difficulty,
			RealPrice:       t.RealPrice,
			DiscountedPrice: t.DiscountedPrice,
			Image:           l.Resolve(t.Image),
		})
	}
	return out
}

func detailView(t domain.Trek, l LinkResolver) domain.TrekDetailView {
	return domain.TrekDetailView{
		ID:              t.ID,
		Name:            t.Name,
		Heading:         t.Heading,
		Overview:        t.Overview,
		Highlight:       t.Highlight,
		Duration:        t.Duration,
		Difficulty:      t.Difficulty,
		RealPrice:       t.RealPrice,
		DiscountedPrice: t.DiscountedPrice,
		Altitude:        t.Details.Altitude,
		Distance:        t.Details.Distance,
		Transportation:  t.Details.Transportation,
		Meals:           t.Details.Meals,
		BestSeason:      t.Details.BestSeason,
		TrekType:        t.Details.TrekType,
		DayHighlight:    t.Itinerary.DayHighlight,
		DayExplain:      t.Itinerary.DayExplain,
		Image:           l.Resolve(t.Image),
		Banner:          l.Resolve(t.Banner),
		MainImage:       l.Resolve(t.MainImage),
	}
}

/********** alias registry for legacy payloads **********/

// Older deployments answered with raw column names (realprice, mainimage);
// this service answers camelCase, with composites either flat or nested.
var legacyAliases = map[string][]string{
	"id":              {"id", "trek_id"},
	"name":            {"name"},
	"duration":        {"duration"},
	"difficulty":      {"difficulty"},
	"realPrice":       {"realPrice", "realprice", "real_price"},
	"discountedPrice": {"discountedPrice", "discountedprice", "discounted_price"},
	"heading":         {"heading"},
	"overview":        {"overview"},
	"highlight":       {"highlight"},
	"image":           {"image"},
	"banner":          {"banner"},
	"mainImage":       {"mainImage", "mainimage", "main_image"},
	"altitude":        {"altitude", "details.altitude"},
	"distance":        {"distance", "details.distance"},
	"transportation":  {"transportation", "details.transportation"},
	"meals":           {"meals", "details.meals"},
	"bestSeason":      {"bestSeason", "details.bestSeason", "season"},
	"trekType":        {"trekType", "details.trekType", "trek_type"},
	"dayHighlight":    {"dayHighlight", "itinerary.dayHighlight"},
	"dayExplain":      {"dayExplain", "itinerary.dayExplain", "itinerary_details"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set, looked up
// in each payload in turn.
func firstNonEmptyAlias(key string, payloads ...map[string]any) *string {
	for _, m := range payloads {
		for _, p := range legacyAliases[key] {
			if s := lookupStr(m, p); s != "" {
				return &s
			}
		}
	}
	return nil
}

// getFloatFlexible: number from an alias set (float64/int/string like "4200.00").
func getFloatFlexible(key string, payloads ...map[string]any) *float64 {
	for _, m := range payloads {
		for _, k := range legacyAliases[key] {
			switch v := lookupAny(m, k).(type) {
			case float64:
				f := v
				return &f
			case int:
				f := float64(v)
				return &f
			case string:
				s := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
				if s == "" {
					continue
				}
				if f, err := strconv.ParseFloat(s, 64); err == nil {
					return &f
				}
			}
		}
	}
	return nil
}

// firstInt64Flexible: int64 from an alias set (float64/int/string).
func firstInt64Flexible(key string, m map[string]any) *int64 {
	for _, k := range legacyAliases[key] {
		switch v := lookupAny(m, k).(type) {
		case float64:
			x := int64(v)
			return &x
		case int:
			x := int64(v)
			return &x
		case int64:
			x := v
			return &x
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return &n
			}
		}
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func formatPrice(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

/********** legacy mapper **********/

// mapLegacy merges a listing entry and its detail payload into a submission.
// File URLs are returned separately; the caller downloads them.
func mapLegacy(summary, detail map[string]any) (Submission, map[string]string) {
	s := Submission{
		Name:             deref(firstNonEmptyAlias("name", detail, summary)),
		Duration:         firstNonEmptyAlias("duration", detail, summary),
		Difficulty:       firstNonEmptyAlias("difficulty", detail, summary),
		RealPrice:        formatPrice(getFloatFlexible("realPrice", summary, detail)),
		DiscountedPrice:  formatPrice(getFloatFlexible("discountedPrice", summary, detail)),
		Heading:          firstNonEmptyAlias("heading", detail),
		Overview:         firstNonEmptyAlias("overview", detail),
		Highlight:        firstNonEmptyAlias("highlight", detail),
		Itinerary:        firstNonEmptyAlias("dayHighlight", detail),
		ItineraryDetails: firstNonEmptyAlias("dayExplain", detail),
		Altitude:         firstNonEmptyAlias("altitude", detail),
		Distance:         firstNonEmptyAlias("distance", detail),
		Transportation:   firstNonEmptyAlias("transportation", detail),
		Meals:            firstNonEmptyAlias("meals", detail),
		Season:           firstNonEmptyAlias("bestSeason", detail),
		TrekType:         firstNonEmptyAlias("trekType", detail),
	}
	urls := map[string]string{}
	if u := firstNonEmptyAlias("image", summary, detail); u != nil {
		urls[FieldImage] = *u
	}
	if u := firstNonEmptyAlias("banner", detail, summary); u != nil {
		urls[FieldBanner] = *u
	}
	if u := firstNonEmptyAlias("mainImage", detail, summary); u != nil {
		urls[FieldMainImage] = *u
	}
	return s, urls
}
