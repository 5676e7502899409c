package attom

import (
	"github.com/couchcryptid/home-data-enrichment/internal/adapter/providerhttp"
	"github.com/couchcryptid/home-data-enrichment/internal/domain"
)

// ATTOM expanded profile response types. Only the fields that are mapped are
// declared; ATTOM sends numbers as strings in some fields, hence Number.

type response struct {
	Status struct {
		Code  int    `json:"code"`
		Msg   string `json:"msg"`
		Total int    `json:"total"`
	} `json:"status"`
	Property []property `json:"property"`
}

type property struct {
	Address struct {
		OneLine string `json:"oneLine"`
	} `json:"address"`
	Location struct {
		Latitude  providerhttp.Number `json:"latitude"`
		Longitude providerhttp.Number `json:"longitude"`
	} `json:"location"`
	Area struct {
		CountrySecSubd   string `json:"countrysecsubd"`
		CensusTractIdent string `json:"censusTractIdent"`
	} `json:"area"`
	Lot struct {
		LotSize1 providerhttp.Number `json:"lotSize1"` // acres
		LotSize2 providerhttp.Number `json:"lotSize2"` // square feet
	} `json:"lot"`
	Summary struct {
		PropClass   string              `json:"propclass"`
		PropSubType string              `json:"propsubtype"`
		PropType    string              `json:"proptype"`
		YearBuilt   providerhttp.Number `json:"yearbuilt"`
	} `json:"summary"`
	Building struct {
		Size struct {
			LivingSize    providerhttp.Number `json:"livingsize"`
			UniversalSize providerhttp.Number `json:"universalsize"`
		} `json:"size"`
		Rooms struct {
			BathsTotal providerhttp.Number `json:"bathstotal"`
			Beds       providerhttp.Number `json:"beds"`
		} `json:"rooms"`
		Construction struct {
			ConstructionType string `json:"constructiontype"`
			FrameType        string `json:"frameType"`
			FoundationType   string `json:"foundationtype"`
			RoofCover        string `json:"roofcover"`
		} `json:"construction"`
		Summary struct {
			Levels providerhttp.Number `json:"levels"`
		} `json:"summary"`
	} `json:"building"`
	Utilities struct {
		HeatingType string `json:"heatingtype"`
		CoolingType string `json:"coolingtype"`
	} `json:"utilities"`
	Assessment struct {
		Assessed struct {
			AssdTtlValue providerhttp.Number `json:"assdttlvalue"`
		} `json:"assessed"`
		Market struct {
			MktTtlValue providerhttp.Number `json:"mktttlvalue"`
		} `json:"market"`
		Tax struct {
			TaxAmt  providerhttp.Number `json:"taxamt"`
			TaxYear providerhttp.Number `json:"taxyear"`
		} `json:"tax"`
	} `json:"assessment"`
	School struct {
		SchoolDistrictName string `json:"schoolDistrictName"`
	} `json:"school"`
}

func (p property) toProfile() domain.EnrichedProfile {
	out := domain.EnrichedProfile{
		NormalizedAddress: providerhttp.Text(p.Address.OneLine),
		County:            providerhttp.Text(p.Area.CountrySecSubd),
		CensusTract:       providerhttp.Text(p.Area.CensusTractIdent),

		YearBuilt:     p.Summary.YearBuilt.PositiveInt(),
		SquareFootage: firstPositive(p.Building.Size.LivingSize, p.Building.Size.UniversalSize),
		LotSizeSqFt:   p.Lot.LotSize2.PositiveInt(),
		LotSizeAcres:  p.Lot.LotSize1.PositiveFloat(),
		Bedrooms:      p.Building.Rooms.Beds.PositiveInt(),
		Bathrooms:     p.Building.Rooms.BathsTotal.PositiveFloat(),
		Stories:       p.Building.Summary.Levels.PositiveFloat(),
		PropertyType:  firstText(p.Summary.PropClass, p.Summary.PropSubType, p.Summary.PropType),

		ConstructionType: firstText(p.Building.Construction.ConstructionType, p.Building.Construction.FrameType),
		RoofType:         providerhttp.Text(p.Building.Construction.RoofCover),
		FoundationType:   providerhttp.Text(p.Building.Construction.FoundationType),
		HeatingType:      providerhttp.Text(p.Utilities.HeatingType),
		CoolingType:      providerhttp.Text(p.Utilities.CoolingType),

		MarketValue:    p.Assessment.Market.MktTtlValue.PositiveInt(),
		AssessedValue:  p.Assessment.Assessed.AssdTtlValue.PositiveInt(),
		TaxAmount:      p.Assessment.Tax.TaxAmt.PositiveFloat(),
		TaxYear:        p.Assessment.Tax.TaxYear.PositiveInt(),
		SchoolDistrict: providerhttp.Text(p.School.SchoolDistrictName),
	}

	// A coordinate pair is only useful whole; 0,0 is ATTOM's "unknown".
	lat, lon := p.Location.Latitude.Float(), p.Location.Longitude.Float()
	if lat != nil && lon != nil && (*lat != 0 || *lon != 0) {
		out.Latitude, out.Longitude = lat, lon
	}
	return out
}

func firstPositive(ns ...providerhttp.Number) *int {
	for _, n := range ns {
		if v := n.PositiveInt(); v != nil {
			return v
		}
	}
	return nil
}

func firstText(ss ...string) *string {
	for _, s := range ss {
		if v := providerhttp.Text(s); v != nil {
			return v
		}
	}
	return nil
}
