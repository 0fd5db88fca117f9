package models

// Category is one of the 13 fixed scoring categories
type Category string

const (
	CategoryOnes          Category = "ones"
	CategoryTwos          Category = "twos"
	CategoryThrees        Category = "threes"
	CategoryFours         Category = "fours"
	CategoryFives         Category = "fives"
	CategorySixes         Category = "sixes"
	CategoryThreeOfAKind  Category = "three_of_a_kind"
	CategoryFourOfAKind   Category = "four_of_a_kind"
	CategoryFullHouse     Category = "full_house"
	CategorySmallStraight Category = "small_straight"
	CategoryLargeStraight Category = "large_straight"
	CategoryYacht         Category = "yacht"
	CategoryChance        Category = "chance"
)

// Categories lists every scoring category in scorecard order.
var Categories = []Category{
	CategoryOnes, CategoryTwos, CategoryThrees,
	CategoryFours, CategoryFives, CategorySixes,
	CategoryThreeOfAKind, CategoryFourOfAKind, CategoryFullHouse,
	CategorySmallStraight, CategoryLargeStraight, CategoryYacht,
	CategoryChance,
}

// UpperCategories are the six per-face categories that count toward the bonus.
var UpperCategories = []Category{
	CategoryOnes, CategoryTwos, CategoryThrees,
	CategoryFours, CategoryFives, CategorySixes,
}

// Scorecard maps each scoring category to a locked-in point value.
// A category is open while absent from the map; once set it is immutable
// for the remainder of the room's life.
type Scorecard map[Category]int

// NewScorecard returns an empty scorecard with every category open.
func NewScorecard() Scorecard {
	return make(Scorecard, len(Categories))
}

// IsSet reports whether the category has a locked-in value.
func (s Scorecard) IsSet(c Category) bool {
	_, ok := s[c]
	return ok
}

// Complete reports whether every category has been scored.
func (s Scorecard) Complete() bool {
	return len(s) == len(Categories)
}
