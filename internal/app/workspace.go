package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Amund211/clientboard/internal/adapters/clickup"
	"github.com/Amund211/clientboard/internal/domain"
)

const workspaceBrowseTimeout = 10 * time.Second

type workspaceBrowser interface {
	GetSpaces(ctx context.Context, teamID string) ([]clickup.Space, error)
	GetFolders(ctx context.Context, spaceID string) ([]clickup.Folder, error)
	GetFolderLists(ctx context.Context, folderID string) ([]clickup.List, error)
	GetSpaceLists(ctx context.Context, spaceID string) ([]clickup.List, error)
}

// ListWorkspaceSpaces lists the spaces of the configured team
type ListWorkspaceSpaces func(ctx context.Context) ([]clickup.Space, error)

func BuildListWorkspaceSpaces(getSettings GetSettings, browser workspaceBrowser) ListWorkspaceSpaces {
	return func(ctx context.Context) ([]clickup.Space, error) {
		settings, err := getSettings(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not get settings: %w", err)
		}
		if settings.TeamID == "" {
			return nil, fmt.Errorf("%w: no ClickUp team configured", domain.ErrNotConfigured)
		}

		ctx, cancel := context.WithTimeout(ctx, workspaceBrowseTimeout)
		defer cancel()

		// NOTE: the ClickUp API reports its own errors
		spaces, err := browser.GetSpaces(ctx, settings.TeamID)
		if err != nil {
			return nil, fmt.Errorf("could not get spaces: %w", err)
		}
		return spaces, nil
	}
}

// A list together with the folder it lives in. Folder is empty for folderless lists.
type WorkspaceList struct {
	clickup.List
	Folder string
}

// ListWorkspaceLists lists every list in the space, the ones in folders first
type ListWorkspaceLists func(ctx context.Context, spaceID string) ([]WorkspaceList, error)

func BuildListWorkspaceLists(browser workspaceBrowser) ListWorkspaceLists {
	return func(ctx context.Context, spaceID string) ([]WorkspaceList, error) {
		if strings.TrimSpace(spaceID) == "" {
			return nil, fmt.Errorf("%w: space ID is empty", domain.ErrInvalidInput)
		}

		ctx, cancel := context.WithTimeout(ctx, workspaceBrowseTimeout)
		defer cancel()

		// NOTE: the ClickUp API reports its own errors
		folders, err := browser.GetFolders(ctx, spaceID)
		if err != nil {
			return nil, fmt.Errorf("could not get folders: %w", err)
		}

		result := []WorkspaceList{}
		for _, folder := range folders {
			lists := folder.Lists
			if lists == nil {
				lists, err = browser.GetFolderLists(ctx, folder.ID)
				if err != nil {
					return nil, fmt.Errorf("could not get lists of folder %s: %w", folder.ID, err)
				}
			}
			for _, list := range lists {
				result = append(result, WorkspaceList{List: list, Folder: folder.Name})
			}
		}

		folderless, err := browser.GetSpaceLists(ctx, spaceID)
		if err != nil {
			return nil, fmt.Errorf("could not get folderless lists: %w", err)
		}
		for _, list := range folderless {
			result = append(result, WorkspaceList{List: list})
		}

		return result, nil
	}
}
