package pages

import "fmt"

var (
	locBoard        = css(".kanban-board", "kanban board")
	locTaskTitleIn  = css("input#task-title", "new task title input")
	locTaskSubmit   = testID("task-submit", "create task button")
	locTaskModal    = css(".task-modal", "task dialog")
	locAssigneeList = css(".task-modal select#assignee", "assignee selector")
)

func kanbanColumn(column string) Locator {
	return css(fmt.Sprintf(`.kanban-column[data-column="%s"]`, column), column+" column")
}

func addTaskInColumn(column string) Locator {
	return css(fmt.Sprintf(`.kanban-column[data-column="%s"] button.add-task`, column), "add task in "+column)
}

func taskCard(title string) Locator {
	return css(fmt.Sprintf(`.task-card:has-text("%s")`, title), "task "+title)
}

func taskCardInColumn(title, column string) Locator {
	return css(fmt.Sprintf(`.kanban-column[data-column="%s"] .task-card:has-text("%s")`, column, title),
		fmt.Sprintf("task %q in %s column", title, column))
}

func taskCardCount(column string) Locator {
	return css(fmt.Sprintf(`.kanban-column[data-column="%s"] .task-card`, column), "tasks in "+column)
}

// TasksPage is the kanban board screen.
type TasksPage struct {
	Base
}

func NewTasksPage(env Env) *TasksPage {
	return &TasksPage{Base: newBase(env, "tasks", "/tasks", []Locator{locBoard})}
}

// CreateTask adds a task to a column and waits for its card to render
// there.
func (p *TasksPage) CreateTask(title, column string) error {
	if err := p.Click(addTaskInColumn(column)); err != nil {
		return err
	}
	if _, err := p.WaitVisible(locTaskModal, 0); err != nil {
		return err
	}
	if err := p.Type(locTaskTitleIn, title); err != nil {
		return err
	}
	if err := p.Click(locTaskSubmit); err != nil {
		return err
	}
	if err := p.WaitInvisible(locTaskModal, 0); err != nil {
		return err
	}
	_, err := p.WaitVisible(taskCardInColumn(title, column), 0)
	return err
}

// MoveTask drags a card between columns and waits until the board agrees
// with the move: present in the target, gone from the source.
func (p *TasksPage) MoveTask(title, from, to string) error {
	card, err := p.WaitVisible(taskCardInColumn(title, from), 0)
	if err != nil {
		return err
	}
	target, err := p.WaitVisible(kanbanColumn(to), 0)
	if err != nil {
		return err
	}
	if err := card.DragTo(target); err != nil {
		return err
	}
	return p.WaitFor(fmt.Sprintf("task %q lands in %s", title, to), 0, func() bool {
		return p.TaskInColumn(title, to) && !p.TaskInColumn(title, from)
	})
}

// TaskInColumn reports whether the titled card sits in the column.
func (p *TasksPage) TaskInColumn(title, column string) bool {
	return p.IsPresent(taskCardInColumn(title, column))
}

// ColumnTaskCount counts the cards in a column.
func (p *TasksPage) ColumnTaskCount(column string) (int, error) {
	return p.env.Driver().Find(taskCardCount(column).Selector()).Count()
}

// AssignTask opens a card and assigns it to a user by display name.
func (p *TasksPage) AssignTask(title, assignee string) error {
	if err := p.Click(taskCard(title)); err != nil {
		return err
	}
	if _, err := p.WaitVisible(locAssigneeList, 0); err != nil {
		return err
	}
	option := css(fmt.Sprintf(`.task-modal select#assignee option:has-text("%s")`, assignee), "assignee "+assignee)
	if err := p.Click(option); err != nil {
		return err
	}
	if err := p.Click(locTaskSubmit); err != nil {
		return err
	}
	return p.WaitInvisible(locTaskModal, 0)
}
