package interpreters

// MatchBrackets maps every '[' index to its matching ']' index and back.
func MatchBrackets(code []rune) (map[int]int, error) {
	var stack []int
	brackets := make(map[int]int)
	for i, c := range code {
		switch c {
		case '[':
			stack = append(stack, i)
		case ']':
			if len(stack) == 0 {
				return nil, syntaxError(UnmatchedCloseParen, i)
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			brackets[open] = i
			brackets[i] = open
		}
	}
	if len(stack) > 0 {
		return nil, syntaxError(UnmatchedOpenParen, stack[len(stack)-1])
	}
	return brackets, nil
}
