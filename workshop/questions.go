package workshop

import (
	"fmt"
	"strings"

	"sqlworkshop-server/models"
)

const (
	// AnonymousAuthor is recorded when a question is posted without a name.
	AnonymousAuthor = "Anonymous"

	// MsgWaitingForAnswer is shown to students on unanswered questions.
	MsgWaitingForAnswer = "Waiting for the teacher's answer..."
)

// SubmitQuestion appends a question with the next stable id. A blank body
// appends nothing and returns ErrEmptyInput.
func (w *Workshop) SubmitQuestion(st *models.SessionState, author, body string) (models.QuestionRecord, error) {
	if strings.TrimSpace(body) == "" {
		return models.QuestionRecord{}, ErrEmptyInput
	}
	author = strings.TrimSpace(author)
	if author == "" {
		author = AnonymousAuthor
	}

	q := models.QuestionRecord{
		ID:        st.NextQuestionID,
		Author:    author,
		Body:      body,
		Answer:    "",
		CreatedAt: w.now(),
		Resolved:  false,
	}
	st.NextQuestionID++
	st.Questions = append(st.Questions, q)
	return q, nil
}

// AnswerQuestion stores the teacher's answer and marks the question resolved.
func AnswerQuestion(st *models.SessionState, id int, text string) error {
	if !st.TeacherMode {
		return ErrPermissionDenied
	}
	i := questionIndex(st, id)
	if i < 0 {
		return fmt.Errorf("%w: question %d", ErrUnknownItem, id)
	}
	st.Questions[i].Answer = text
	st.Questions[i].Resolved = true
	return nil
}

// DeleteQuestion removes a question. Remaining questions keep their ids.
func DeleteQuestion(st *models.SessionState, id int) error {
	if !st.TeacherMode {
		return ErrPermissionDenied
	}
	i := questionIndex(st, id)
	if i < 0 {
		return fmt.Errorf("%w: question %d", ErrUnknownItem, id)
	}
	st.Questions = append(st.Questions[:i], st.Questions[i+1:]...)
	return nil
}

// QuestionView is the read projection of one question.
type QuestionView struct {
	ID        int    `json:"id"`
	Author    string `json:"author"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
	Answer    string `json:"answer,omitempty"`
	Resolved  bool   `json:"resolved"`
	Waiting   bool   `json:"waiting"`
	Status    string `json:"status,omitempty"`
	Editable  bool   `json:"editable"`
}

// QuestionViews projects the board for the current mode. Students see an
// answer and the resolved marker only once an answer exists.
func QuestionViews(st *models.SessionState) []QuestionView {
	out := make([]QuestionView, 0, len(st.Questions))
	for _, q := range st.Questions {
		v := QuestionView{
			ID:        q.ID,
			Author:    q.Author,
			Body:      q.Body,
			CreatedAt: q.CreatedAt.Format("2006-01-02 15:04"),
		}
		switch {
		case st.TeacherMode:
			v.Answer = q.Answer
			v.Resolved = q.Resolved
			v.Editable = true
		case q.Answer != "":
			v.Answer = q.Answer
			v.Resolved = q.Resolved
		default:
			v.Waiting = true
			v.Status = MsgWaitingForAnswer
		}
		out = append(out, v)
	}
	return out
}

func questionIndex(st *models.SessionState, id int) int {
	for i, q := range st.Questions {
		if q.ID == id {
			return i
		}
	}
	return -1
}
