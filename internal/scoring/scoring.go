// Package scoring computes category point values from five die faces.
// Everything here is pure; the session coordinator is the only caller
// that feeds it live dice.
package scoring

import (
	"github.com/mdevers/yachtroom/internal/models"
)

const (
	fullHousePoints     = 25
	smallStraightPoints = 30
	largeStraightPoints = 40
	yachtPoints         = 50

	// UpperBonus is added when the per-face subtotal reaches UpperBonusFloor.
	UpperBonus      = 35
	UpperBonusFloor = 63
)

// faceValue maps each upper category to the die face it counts.
var faceValue = map[models.Category]int{
	models.CategoryOnes:   1,
	models.CategoryTwos:   2,
	models.CategoryThrees: 3,
	models.CategoryFours:  4,
	models.CategoryFives:  5,
	models.CategorySixes:  6,
}

// Score returns the point value of playing the given category with the
// given dice. Unknown categories score zero.
func Score(dice [models.DiceCount]int, category models.Category) int {
	if face, ok := faceValue[category]; ok {
		return sumOfFace(dice, face)
	}

	counts := faceCounts(dice)

	switch category {
	case models.CategoryThreeOfAKind:
		if hasCountAtLeast(counts, 3) {
			return sumAll(dice)
		}
	case models.CategoryFourOfAKind:
		if hasCountAtLeast(counts, 4) {
			return sumAll(dice)
		}
	case models.CategoryFullHouse:
		if isFullHouse(counts) {
			return fullHousePoints
		}
	case models.CategorySmallStraight:
		if hasRun(counts, 4) {
			return smallStraightPoints
		}
	case models.CategoryLargeStraight:
		if hasRun(counts, 5) {
			return largeStraightPoints
		}
	case models.CategoryYacht:
		if hasCountAtLeast(counts, 5) {
			return yachtPoints
		}
	case models.CategoryChance:
		return sumAll(dice)
	}
	return 0
}

// Total combines all scored categories of a scorecard, adding the upper
// bonus when the per-face subtotal reaches the bonus floor.
func Total(card models.Scorecard) int {
	total := 0
	upper := 0
	for cat, pts := range card {
		total += pts
		if _, ok := faceValue[cat]; ok {
			upper += pts
		}
	}
	if upper >= UpperBonusFloor {
		total += UpperBonus
	}
	return total
}

// UpperSubtotal returns the per-face category subtotal used for the bonus.
func UpperSubtotal(card models.Scorecard) int {
	upper := 0
	for _, cat := range models.UpperCategories {
		upper += card[cat]
	}
	return upper
}

func sumAll(dice [models.DiceCount]int) int {
	sum := 0
	for _, d := range dice {
		sum += d
	}
	return sum
}

func sumOfFace(dice [models.DiceCount]int, face int) int {
	sum := 0
	for _, d := range dice {
		if d == face {
			sum += face
		}
	}
	return sum
}

// faceCounts is indexed by face value 1..6; index 0 is unused.
func faceCounts(dice [models.DiceCount]int) [7]int {
	var counts [7]int
	for _, d := range dice {
		if d >= 1 && d <= 6 {
			counts[d]++
		}
	}
	return counts
}

func hasCountAtLeast(counts [7]int, n int) bool {
	for face := 1; face <= 6; face++ {
		if counts[face] >= n {
			return true
		}
	}
	return false
}

// isFullHouse requires exactly one face counted three times and one face
// counted twice. Five of a kind is not a full house.
func isFullHouse(counts [7]int) bool {
	hasThree, hasTwo := false, false
	for face := 1; face <= 6; face++ {
		switch counts[face] {
		case 3:
			hasThree = true
		case 2:
			hasTwo = true
		}
	}
	return hasThree && hasTwo
}

// hasRun reports whether the distinct faces contain n consecutive values.
func hasRun(counts [7]int, n int) bool {
	run := 0
	for face := 1; face <= 6; face++ {
		if counts[face] > 0 {
			run++
			if run >= n {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}
