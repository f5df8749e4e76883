package mockseries

import (
	"fmt"
	"time"
)

const (
	BuildingOffice      BuildingType = "Office"
	BuildingResidential BuildingType = "Residential"
	BuildingRetail      BuildingType = "Retail"
	BuildingIndustrial  BuildingType = "Industrial"
	BuildingWarehouse   BuildingType = "Warehouse"
	BuildingHospital    BuildingType = "Hospital"
	BuildingSchool      BuildingType = "School"
	BuildingHotel       BuildingType = "Hotel"

	MaxPortfolioSize = 9999

	MinOccupancy = 50
	MaxOccupancy = 98

	// buildings are at least this many years old
	MinBuildingAge    = 5
	OldestConstructed = 1950
)

var (
	BuildingTypes = []BuildingType{
		BuildingOffice,
		BuildingResidential,
		BuildingRetail,
		BuildingIndustrial,
		BuildingWarehouse,
		BuildingHospital,
		BuildingSchool,
		BuildingHotel,
	}

	BuildingLocations = []string{
		"New York, NY",
		"Chicago, IL",
		"San Francisco, CA",
		"Austin, TX",
		"Seattle, WA",
		"Boston, MA",
		"Denver, CO",
		"Atlanta, GA",
	}

	buildingNamePrefixes = []string{
		"Central",
		"Riverside",
		"Summit",
		"Harbor",
		"Parkview",
		"Metro",
		"Oakwood",
		"Lakeside",
	}

	buildingNameSuffixes = []string{
		"Tower",
		"Plaza",
		"Center",
		"Complex",
		"Building",
		"Campus",
	}
)

type intRange struct {
	lo, hi int
}

// typeProfile bounds the floor count and area per floor of a building type. Both ranges
// are inclusive.
type typeProfile struct {
	floors       intRange
	areaPerFloor intRange
}

var otherTypeProfile = typeProfile{floors: intRange{2, 9}, areaPerFloor: intRange{600, 2000}}

var typeProfiles = map[BuildingType]typeProfile{
	BuildingOffice:      {floors: intRange{5, 34}, areaPerFloor: intRange{500, 2000}},
	BuildingResidential: {floors: intRange{5, 34}, areaPerFloor: intRange{400, 1000}},
	BuildingRetail:      {floors: intRange{1, 4}, areaPerFloor: intRange{1000, 5000}},
	BuildingIndustrial:  {floors: intRange{1, 2}, areaPerFloor: intRange{2000, 10000}},
	BuildingWarehouse:   {floors: intRange{1, 2}, areaPerFloor: intRange{2000, 10000}},
}

func profileFor(bt BuildingType) typeProfile {
	if p, exists := typeProfiles[bt]; exists {
		return p
	}
	return otherTypeProfile
}

func (g *Generator) intIn(r intRange) int {
	return r.lo + g.rng.IntN(r.hi-r.lo+1)
}

func pick[T any](g *Generator, choices []T) T {
	return choices[g.rng.IntN(len(choices))]
}

// adjustOccupancy applies the building age adjustment and clamps to [MinOccupancy, MaxOccupancy]
func adjustOccupancy(base, age int) int {
	occ := base
	switch {
	case age < 5:
		occ += 10
	case age > 20:
		occ -= 15
	}
	return min(max(occ, MinOccupancy), MaxOccupancy)
}

// GenerateBuildingPortfolio returns count buildings with ids BLDG0001, BLDG0002, ... Type,
// location and name are drawn from fixed lists while size and construction year follow the
// ranges of the building type.
func (g *Generator) GenerateBuildingPortfolio(count int) ([]BuildingRecord, error) {
	if count < 0 || count > MaxPortfolioSize {
		return nil, fmt.Errorf("count must be within [0, %d], got %d, %w", MaxPortfolioSize, count, ErrInvalidArgument)
	}

	currentYear := g.opt.NowFunc().In(g.loc).Year()
	latestYear := currentYear - MinBuildingAge
	yearRange := intRange{min(OldestConstructed, latestYear), latestYear}

	buildings := make([]BuildingRecord, 0, count)
	for i := 0; i < count; i++ {
		bt := pick(g, BuildingTypes)
		location := pick(g, BuildingLocations)
		name := fmt.Sprintf("%s %s", pick(g, buildingNamePrefixes), pick(g, buildingNameSuffixes))

		p := profileFor(bt)
		floors := g.intIn(p.floors)
		year := g.intIn(yearRange)
		areaPerFloor := g.intIn(p.areaPerFloor)
		baseOccupancy := g.intIn(intRange{60, 94})

		buildings = append(buildings, BuildingRecord{
			ID:               fmt.Sprintf("BLDG%04d", i+1),
			Name:             name,
			Location:         location,
			Type:             bt,
			Area:             floors * areaPerFloor,
			Floors:           floors,
			Occupancy:        adjustOccupancy(baseOccupancy, currentYear-year),
			ConstructionYear: year,
		})
	}
	return buildings, nil
}

// BuildingAge returns the age in years of the building at the given time
func (b BuildingRecord) BuildingAge(at time.Time) int {
	return at.Year() - b.ConstructionYear
}
