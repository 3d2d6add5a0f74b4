package domain

// Difficulty labels requested from the model, five questions each.
const (
	DifficultySimple    = "Simple"
	DifficultyModerate  = "Moderate"
	DifficultyDifficult = "Difficult"
)

const (
	// QuestionsPerDifficulty is how many questions are requested per label.
	QuestionsPerDifficulty = 5
	// OptionsPerQuestion is how many choices each question should carry.
	OptionsPerQuestion = 4
)

// Difficulties lists the labels in the order they are requested.
var Difficulties = []string{DifficultySimple, DifficultyModerate, DifficultyDifficult}

// TotalQuestions is the number of questions requested per quiz.
func TotalQuestions() int {
	return QuestionsPerDifficulty * len(Difficulties)
}

// QuizQuestion is a single multiple-choice question produced by the model.
type QuizQuestion struct {
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Answer     string   `json:"answer"`
	Difficulty string   `json:"difficulty"`
}

// HasValidAnswer reports whether the answer is one of the options.
func (q *QuizQuestion) HasValidAnswer() bool {
	for _, opt := range q.Options {
		if opt == q.Answer {
			return true
		}
	}
	return false
}

// RepairAnswer restores the answer-in-options invariant. When the answer is
// missing from the options, the first option is replaced by the answer and
// the other options are left untouched. It reports whether a change was made.
func (q *QuizQuestion) RepairAnswer() bool {
	if q.HasValidAnswer() {
		return false
	}
	if len(q.Options) == 0 {
		q.Options = []string{q.Answer}
		return true
	}
	q.Options[0] = q.Answer
	return true
}

// RepairAnswers applies RepairAnswer to every question in place and returns
// how many were modified.
func RepairAnswers(questions []QuizQuestion) int {
	repaired := 0
	for i := range questions {
		if questions[i].RepairAnswer() {
			repaired++
		}
	}
	return repaired
}
