package domain

// Species enumerates the animal kinds the journal understands. Display and
// rollup attributes live in speciesTraits, kept separate from the variant
// definitions so the mapping is trivially testable.
type Species string

// Canonical species.
const (
	SpeciesChicken Species = "chicken"
	SpeciesDuck    Species = "duck"
	SpeciesCow     Species = "cow"
	SpeciesGoat    Species = "goat"
	SpeciesSheep   Species = "sheep"
	SpeciesPig     Species = "pig"
	SpeciesRabbit  Species = "rabbit"
	SpeciesBee     Species = "bee"
)

// SpeciesTraits carries the display and rollup attributes of a species.
type SpeciesTraits struct {
	Icon       string
	BaseWeight float64 // typical per-head weight in kilograms
	Product    ProductType
}

var speciesTraits = map[Species]SpeciesTraits{
	SpeciesChicken: {Icon: "🐔", BaseWeight: 2.0, Product: ProductEggs},
	SpeciesDuck:    {Icon: "🦆", BaseWeight: 3.0, Product: ProductEggs},
	SpeciesCow:     {Icon: "🐄", BaseWeight: 450, Product: ProductMilk},
	SpeciesGoat:    {Icon: "🐐", BaseWeight: 60, Product: ProductMilk},
	SpeciesSheep:   {Icon: "🐑", BaseWeight: 70, Product: ProductWool},
	SpeciesPig:     {Icon: "🐖", BaseWeight: 180, Product: ProductMeat},
	SpeciesRabbit:  {Icon: "🐇", BaseWeight: 2.5, Product: ProductMeat},
	SpeciesBee:     {Icon: "🐝", BaseWeight: 0, Product: ProductHoney},
}

// Traits returns the attributes of the species. Unknown species yield the
// zero traits value.
func (s Species) Traits() SpeciesTraits { return speciesTraits[s] }

// Icon returns the display glyph of the species.
func (s Species) Icon() string { return speciesTraits[s].Icon }

// BaseWeight returns the typical per-head weight of the species in kilograms.
func (s Species) BaseWeight() float64 { return speciesTraits[s].BaseWeight }

// Product returns the product type the species contributes to rollups, or the
// empty product when the species is unknown.
func (s Species) Product() ProductType { return speciesTraits[s].Product }

// AllSpecies lists the canonical species in a stable order.
func AllSpecies() []Species {
	return []Species{
		SpeciesChicken, SpeciesDuck, SpeciesCow, SpeciesGoat,
		SpeciesSheep, SpeciesPig, SpeciesRabbit, SpeciesBee,
	}
}

// CropType enumerates the crop kinds the journal understands.
type CropType string

// Canonical crop types.
const (
	CropTomato     CropType = "tomato"
	CropPotato     CropType = "potato"
	CropCorn       CropType = "corn"
	CropWheat      CropType = "wheat"
	CropCarrot     CropType = "carrot"
	CropLettuce    CropType = "lettuce"
	CropCucumber   CropType = "cucumber"
	CropStrawberry CropType = "strawberry"
	CropApple      CropType = "apple"
	CropPumpkin    CropType = "pumpkin"
	CropOnion      CropType = "onion"
	CropOtherType  CropType = "other"
)

// CropTypeInfo carries display attributes of a crop type.
type CropTypeInfo struct {
	Emoji      string
	CommonName string
}

var cropTypeInfo = map[CropType]CropTypeInfo{
	CropTomato:     {Emoji: "🍅", CommonName: "Tomato"},
	CropPotato:     {Emoji: "🥔", CommonName: "Potato"},
	CropCorn:       {Emoji: "🌽", CommonName: "Corn"},
	CropWheat:      {Emoji: "🌾", CommonName: "Wheat"},
	CropCarrot:     {Emoji: "🥕", CommonName: "Carrot"},
	CropLettuce:    {Emoji: "🥬", CommonName: "Lettuce"},
	CropCucumber:   {Emoji: "🥒", CommonName: "Cucumber"},
	CropStrawberry: {Emoji: "🍓", CommonName: "Strawberry"},
	CropApple:      {Emoji: "🍎", CommonName: "Apple"},
	CropPumpkin:    {Emoji: "🎃", CommonName: "Pumpkin"},
	CropOnion:      {Emoji: "🧅", CommonName: "Onion"},
	CropOtherType:  {Emoji: "🌱", CommonName: "Other"},
}

// Info returns the display attributes of the crop type. Unknown types yield
// the zero info value.
func (c CropType) Info() CropTypeInfo { return cropTypeInfo[c] }

// Emoji returns the display glyph of the crop type.
func (c CropType) Emoji() string { return cropTypeInfo[c].Emoji }

// CommonName returns the human-readable name of the crop type.
func (c CropType) CommonName() string { return cropTypeInfo[c].CommonName }

// ProductTypeInfo carries the default unit and display glyph of a product.
type ProductTypeInfo struct {
	Unit string
	Icon string
}

var productTypeInfo = map[ProductType]ProductTypeInfo{
	ProductEggs:  {Unit: "pcs", Icon: "🥚"},
	ProductMilk:  {Unit: "L", Icon: "🥛"},
	ProductMeat:  {Unit: "kg", Icon: "🍖"},
	ProductWool:  {Unit: "kg", Icon: "🧶"},
	ProductHoney: {Unit: "kg", Icon: "🍯"},
}

// Info returns the attributes of the product type.
func (p ProductType) Info() ProductTypeInfo { return productTypeInfo[p] }

// DefaultUnit returns the unit production records of this product default to.
func (p ProductType) DefaultUnit() string { return productTypeInfo[p].Unit }

// EventTypeInfo carries display attributes of an event type.
type EventTypeInfo struct {
	Icon  string
	Color string
}

var eventTypeInfo = map[EventType]EventTypeInfo{
	EventVaccination: {Icon: "💉", Color: "red"},
	EventFeeding:     {Icon: "🌾", Color: "orange"},
	EventHarvest:     {Icon: "🧺", Color: "green"},
	EventPlanting:    {Icon: "🌱", Color: "green"},
	EventMaintenance: {Icon: "🔧", Color: "gray"},
	EventBreeding:    {Icon: "🐣", Color: "yellow"},
	EventVeterinary:  {Icon: "🩺", Color: "blue"},
	EventMarket:      {Icon: "🛒", Color: "purple"},
	EventOther:       {Icon: "📌", Color: "gray"},
}

// Info returns the display attributes of the event type.
func (e EventType) Info() EventTypeInfo { return eventTypeInfo[e] }
