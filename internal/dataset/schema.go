package dataset

// Kind describes how values of a column are interpreted.
type Kind int

const (
	Categorical Kind = iota
	Numeric
	Integer
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Integer:
		return "integer"
	default:
		return "categorical"
	}
}

// Survey column names.
const (
	ColAge         = "Age"
	ColGender      = "Gender"
	ColCountry     = "Country"
	ColCondition   = "Mental Health Condition"
	ColSleepHours  = "Sleep Hours"
	ColWorkHours   = "Work Hours per Week"
	ColScreenTime  = "Screen Time per Day (Hours)"
	ColSocialScore = "Social Interaction Score"
	ColHappiness   = "Happiness Score"
	ColExercise    = "Exercise Level"
	ColDiet        = "Diet Type"
	ColStress      = "Stress Level"
)

// Column declares one schema column. Required columns must be non-null in every record.
type Column struct {
	Name     string
	Kind     Kind
	Required bool
}

// Schema is the set of columns a dataset is checked against.
type Schema struct {
	Columns []Column
}

// SurveySchema returns the schema of the mental-health lifestyle survey.
func SurveySchema() Schema {
	return Schema{Columns: []Column{
		{Name: ColCountry, Kind: Categorical, Required: true},
		{Name: ColAge, Kind: Integer, Required: true},
		{Name: ColGender, Kind: Categorical, Required: true},
		{Name: ColExercise, Kind: Categorical},
		{Name: ColDiet, Kind: Categorical},
		{Name: ColSleepHours, Kind: Numeric},
		{Name: ColStress, Kind: Categorical},
		{Name: ColCondition, Kind: Categorical},
		{Name: ColWorkHours, Kind: Numeric},
		{Name: ColScreenTime, Kind: Numeric},
		{Name: ColSocialScore, Kind: Numeric},
		{Name: ColHappiness, Kind: Numeric},
	}}
}

// Lookup returns the schema column with the given name.
func (s Schema) Lookup(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Names returns the names of columns of the given kinds, in schema order.
// Integer columns are reported as numeric.
func (s Schema) Names(kind Kind) []string {
	var out []string
	for _, c := range s.Columns {
		k := c.Kind
		if k == Integer {
			k = Numeric
		}
		if k == kind {
			out = append(out, c.Name)
		}
	}
	return out
}
