package clickup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Amund211/clientboard/internal/domain"
)

const mockedListID = "mocked-list"

type mockedAPI struct {
	nowFunc func() time.Time

	mu       sync.Mutex
	comments map[string][]TaskComment
}

// NewMockedAPI returns an in-memory API with a fixed demo project, used in
// development when no API key is configured
func NewMockedAPI(nowFunc func() time.Time) API {
	return &mockedAPI{
		nowFunc:  nowFunc,
		comments: map[string][]TaskComment{},
	}
}

func (m *mockedAPI) GetSpaces(ctx context.Context, teamID string) ([]Space, error) {
	return []Space{{ID: "mocked-space", Name: "Clientes"}}, nil
}

func (m *mockedAPI) GetFolders(ctx context.Context, spaceID string) ([]Folder, error) {
	return []Folder{}, nil
}

func (m *mockedAPI) GetFolderLists(ctx context.Context, folderID string) ([]List, error) {
	return nil, fmt.Errorf("%w: folder %s", domain.ErrNotFound, folderID)
}

func (m *mockedAPI) GetSpaceLists(ctx context.Context, spaceID string) ([]List, error) {
	return []List{{ID: mockedListID, Name: "Projeto demonstração"}}, nil
}

func (m *mockedAPI) GetList(ctx context.Context, listID string) (List, error) {
	return List{ID: listID, Name: "Projeto demonstração"}, nil
}

func (m *mockedAPI) GetTasks(ctx context.Context, listID string) ([]Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tasks := m.tasks()
	for i := range tasks {
		tasks[i].Comments = append(tasks[i].Comments, m.comments[tasks[i].ID]...)
	}
	return tasks, nil
}

func (m *mockedAPI) GetTask(ctx context.Context, taskID string) (Task, error) {
	tasks, err := m.GetTasks(ctx, mockedListID)
	if err != nil {
		return Task{}, err
	}
	for _, task := range tasks {
		if task.ID == taskID {
			return task, nil
		}
	}
	return Task{}, fmt.Errorf("%w: task %s", domain.ErrNotFound, taskID)
}

func (m *mockedAPI) PostComment(ctx context.Context, taskID, text string, notifyAll bool) (PostedComment, error) {
	if _, err := m.GetTask(ctx, taskID); err != nil {
		return PostedComment{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.nowFunc()
	comment := TaskComment{
		ID:   fmt.Sprintf("mocked-comment-%d", len(m.comments[taskID])+1),
		Text: text,
		User: &User{Username: "Você"},
		Date: Timestamp{now},
	}
	m.comments[taskID] = append(m.comments[taskID], comment)

	return PostedComment{ID: comment.ID, Date: now}, nil
}

func (m *mockedAPI) tasks() []Task {
	today := domain.StartOfDay(m.nowFunc())
	day := func(offset int) Timestamp {
		return Timestamp{today.AddDate(0, 0, offset)}
	}

	return []Task{
		{
			ID:          "mocked-discovery",
			Name:        "Descoberta",
			Description: "Entrevistas e levantamento de requisitos",
			Status:      TaskStatus{Status: "Concluído"},
			StartDate:   day(-30),
			DueDate:     day(-16),
		},
		{
			ID:          "mocked-build",
			Name:        "Desenvolvimento",
			Description: "Implementação do modelo e integrações",
			Status:      TaskStatus{Status: "Em andamento"},
			StartDate:   day(-15),
			DueDate:     day(10),
			Checklists: []Checklist{{
				ID:   "mocked-checklist",
				Name: "Entregas",
				Items: []ChecklistItem{
					{ID: "mocked-item-1", Name: "Pipeline de dados", Resolved: true},
					{ID: "mocked-item-2", Name: "Treinamento", Resolved: true},
					{ID: "mocked-item-3", Name: "Integração com CRM", Resolved: false},
				},
			}},
		},
		{
			ID:          "mocked-launch",
			Name:        "Lançamento",
			Description: "Implantação e treinamento da equipe",
			Status:      TaskStatus{Status: "To Do"},
			StartDate:   day(11),
			DueDate:     day(25),
		},
	}
}
