package table

// Reward scores a finished round for training purposes: the closer the
// player ended to 21 the higher the reward. Combinations the table does not
// cover score 0.
func Reward(playerScore, dealerScore int, choice Action) float64 {
	closeness := float64(playerScore) / 21.0
	switch choice {
	case Hit:
		if playerScore == 21 {
			return 1.0
		}
		return 0.7
	case Stay:
		switch {
		case playerScore == 21:
			return 1.0
		case playerScore >= dealerScore && dealerScore < 21:
			return 1.0
		case dealerScore > 21:
			return closeness
		case dealerScore > playerScore:
			return closeness
		}
	case DoubleDown:
		switch {
		case playerScore == 21:
			return 1.0
		case playerScore > 21:
			return 0.7
		case playerScore >= dealerScore && dealerScore < 21:
			return 1.0
		case dealerScore > playerScore:
			return closeness
		}
	}
	return 0
}
