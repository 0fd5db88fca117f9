package scoring

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mdevers/yachtroom/internal/models"
)

func TestScoreUpperCategories(t *testing.T) {
	dice := [models.DiceCount]int{3, 3, 5, 1, 3}

	assert.Equal(t, 1, Score(dice, models.CategoryOnes))
	assert.Equal(t, 0, Score(dice, models.CategoryTwos))
	assert.Equal(t, 9, Score(dice, models.CategoryThrees))
	assert.Equal(t, 0, Score(dice, models.CategoryFours))
	assert.Equal(t, 5, Score(dice, models.CategoryFives))
	assert.Equal(t, 0, Score(dice, models.CategorySixes))
}

func TestScoreOfAKind(t *testing.T) {
	tests := []struct {
		name     string
		dice     [models.DiceCount]int
		category models.Category
		want     int
	}{
		{"three of a kind sums all dice", [models.DiceCount]int{4, 4, 4, 2, 6}, models.CategoryThreeOfAKind, 20},
		{"four of a kind counts toward three", [models.DiceCount]int{2, 2, 2, 2, 5}, models.CategoryThreeOfAKind, 13},
		{"pair is not three of a kind", [models.DiceCount]int{4, 4, 3, 2, 6}, models.CategoryThreeOfAKind, 0},
		{"four of a kind sums all dice", [models.DiceCount]int{2, 2, 2, 2, 5}, models.CategoryFourOfAKind, 13},
		{"three is not four of a kind", [models.DiceCount]int{2, 2, 2, 3, 5}, models.CategoryFourOfAKind, 0},
		{"yacht counts toward four of a kind", [models.DiceCount]int{6, 6, 6, 6, 6}, models.CategoryFourOfAKind, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.dice, tt.category))
		})
	}
}

func TestScoreFullHouse(t *testing.T) {
	assert.Equal(t, 25, Score([models.DiceCount]int{3, 3, 3, 5, 5}, models.CategoryFullHouse))
	assert.Equal(t, 25, Score([models.DiceCount]int{5, 3, 5, 3, 3}, models.CategoryFullHouse))

	// Five of a kind is not a full house; the split must be exactly 3+2.
	assert.Equal(t, 0, Score([models.DiceCount]int{4, 4, 4, 4, 4}, models.CategoryFullHouse))
	assert.Equal(t, 0, Score([models.DiceCount]int{4, 4, 4, 4, 2}, models.CategoryFullHouse))
	assert.Equal(t, 0, Score([models.DiceCount]int{4, 4, 3, 3, 2}, models.CategoryFullHouse))
}

func TestScoreStraights(t *testing.T) {
	smallOnly := [models.DiceCount]int{1, 2, 3, 4, 4}
	large := [models.DiceCount]int{2, 3, 4, 5, 6}
	noRun := [models.DiceCount]int{1, 2, 4, 5, 6}

	assert.Equal(t, 30, Score(smallOnly, models.CategorySmallStraight))
	assert.Equal(t, 0, Score(smallOnly, models.CategoryLargeStraight))

	// A large straight contains a small one.
	assert.Equal(t, 30, Score(large, models.CategorySmallStraight))
	assert.Equal(t, 40, Score(large, models.CategoryLargeStraight))

	assert.Equal(t, 0, Score(noRun, models.CategorySmallStraight))
	assert.Equal(t, 0, Score(noRun, models.CategoryLargeStraight))
}

func TestScoreYachtAndChance(t *testing.T) {
	assert.Equal(t, 50, Score([models.DiceCount]int{3, 3, 3, 3, 3}, models.CategoryYacht))
	assert.Equal(t, 0, Score([models.DiceCount]int{3, 3, 3, 3, 4}, models.CategoryYacht))
	assert.Equal(t, 16, Score([models.DiceCount]int{3, 3, 3, 3, 4}, models.CategoryChance))
}

func TestTotalAppliesUpperBonus(t *testing.T) {
	card := models.NewScorecard()
	// Three of each face hits the bonus floor exactly.
	card[models.CategoryOnes] = 3
	card[models.CategoryTwos] = 6
	card[models.CategoryThrees] = 9
	card[models.CategoryFours] = 12
	card[models.CategoryFives] = 15
	card[models.CategorySixes] = 18

	assert.Equal(t, UpperBonusFloor, UpperSubtotal(card))
	assert.Equal(t, 63+UpperBonus, Total(card))

	card[models.CategoryChance] = 21
	assert.Equal(t, 63+UpperBonus+21, Total(card))
}

func TestTotalRoundTripsRandomizedScorecards(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 1000; i++ {
		card := models.NewScorecard()
		for _, cat := range models.Categories {
			if rng.IntN(4) == 0 {
				continue // leave some categories open
			}
			card[cat] = rng.IntN(51)
		}

		manual := 0
		upper := 0
		for cat, pts := range card {
			manual += pts
			for _, up := range models.UpperCategories {
				if cat == up {
					upper += pts
				}
			}
		}
		if upper >= UpperBonusFloor {
			manual += UpperBonus
		}

		assert.Equal(t, manual, Total(card))
		assert.Equal(t, upper, UpperSubtotal(card))
	}
}

func TestTotalWithoutBonus(t *testing.T) {
	card := models.NewScorecard()
	card[models.CategoryOnes] = 2
	card[models.CategorySixes] = 18
	card[models.CategoryYacht] = 50

	assert.Equal(t, 20, UpperSubtotal(card))
	assert.Equal(t, 70, Total(card))
}
