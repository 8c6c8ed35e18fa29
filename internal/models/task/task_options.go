package task

import "github.com/google/uuid"

type TaskOption func(*Task)

// Apply runs every non-nil option against t.
func (t *Task) Apply(options ...TaskOption) {
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
}

func WithTitle(title string) TaskOption {
	return func(task *Task) {
		task.Title = title
	}
}

func WithDescription(description *string) TaskOption {
	return func(task *Task) {
		task.Description = description
	}
}

func WithDone(done *bool) TaskOption {
	if done == nil {
		return nil
	}
	return func(task *Task) {
		task.IsDone = *done
	}
}

func WithCategory(categoryID uuid.UUID) TaskOption {
	if categoryID == uuid.Nil {
		return nil
	}
	return func(task *Task) {
		task.CategoryID = categoryID
	}
}
