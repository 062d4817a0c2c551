package services

import (
	"context"
	"testing"
	"time"

	"github.com/criticdb/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockCommentRepo is a mock implementation of CommentRepository
type mockCommentRepo struct {
	comments map[int]*models.Comment
	err      error
	created  *models.Comment
	updated  *models.Comment
	deleted  []int
}

func newMockCommentRepo() *mockCommentRepo {
	return &mockCommentRepo{comments: map[int]*models.Comment{}}
}

func (m *mockCommentRepo) GetAllByReview(ctx context.Context, reviewID, page, count int) ([]models.Comment, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Comment
	for _, comment := range m.comments {
		if comment.ReviewID == reviewID {
			out = append(out, *comment)
		}
	}
	return out, nil
}

func (m *mockCommentRepo) GetByID(ctx context.Context, reviewID, commentID int) (*models.Comment, error) {
	if m.err != nil {
		return nil, m.err
	}
	if comment, ok := m.comments[commentID]; ok && comment.ReviewID == reviewID {
		copied := *comment
		return &copied, nil
	}
	return nil, models.ErrNotFound
}

func (m *mockCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	if m.err != nil {
		return m.err
	}
	comment.ID = len(m.comments) + 1
	m.comments[comment.ID] = comment
	m.created = comment
	return nil
}

func (m *mockCommentRepo) Update(ctx context.Context, comment *models.Comment) error {
	if m.err != nil {
		return m.err
	}
	m.updated = comment
	m.comments[comment.ID] = comment
	return nil
}

func (m *mockCommentRepo) Delete(ctx context.Context, commentID int) error {
	if m.err != nil {
		return m.err
	}
	delete(m.comments, commentID)
	m.deleted = append(m.deleted, commentID)
	return nil
}

// mockReviewAnchor is a mock implementation of ReviewAnchorRepository
type mockReviewAnchor struct {
	review *models.Review
}

func (m *mockReviewAnchor) GetByID(ctx context.Context, titleID, reviewID int) (*models.Review, error) {
	if m.review != nil && m.review.ID == reviewID && m.review.TitleID == titleID {
		return m.review, nil
	}
	return nil, models.ErrNotFound
}

func newTestCommentService(repo *mockCommentRepo, anchor *mockReviewAnchor) *commentService {
	logger, _ := zap.NewDevelopment()
	return NewCommentService(repo, anchor, logger)
}

func TestCommentService_Create(t *testing.T) {
	actor := &models.User{ID: 20, Username: "carol", Role: models.RoleUser}
	anchor := &mockReviewAnchor{review: &models.Review{ID: 3, TitleID: 5}}

	tests := []struct {
		name        string
		titleID     int
		reviewID    int
		text        string
		expectedErr error
	}{
		{
			name:     "success",
			titleID:  5,
			reviewID: 3,
			text:     "agreed",
		},
		{
			name:        "empty text",
			titleID:     5,
			reviewID:    3,
			text:        "",
			expectedErr: models.ErrValidation,
		},
		{
			name:        "review not under this title",
			titleID:     6,
			reviewID:    3,
			text:        "agreed",
			expectedErr: models.ErrNotFound,
		},
		{
			name:        "unknown review",
			titleID:     5,
			reviewID:    99,
			text:        "agreed",
			expectedErr: models.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockCommentRepo()
			svc := newTestCommentService(repo, anchor)

			comment, err := svc.Create(context.Background(), actor, tt.titleID, tt.reviewID,
				&models.CreateCommentRequest{Text: tt.text})

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, comment)
			} else {
				require.NoError(t, err)
				assert.Equal(t, actor.ID, comment.AuthorID)
				assert.Equal(t, actor.Username, comment.AuthorUsername)
				assert.Equal(t, tt.reviewID, comment.ReviewID)
				assert.False(t, comment.PubDate.IsZero())
			}
		})
	}
}

func TestCommentService_Update_Policy(t *testing.T) {
	tests := []struct {
		name      string
		actor     *models.User
		forbidden bool
	}{
		{
			name:  "author edits own comment",
			actor: &models.User{ID: 20, Username: "carol", Role: models.RoleUser},
		},
		{
			name:      "other user is rejected",
			actor:     &models.User{ID: 21, Username: "dave", Role: models.RoleUser},
			forbidden: true,
		},
		{
			name:  "moderator edits any comment",
			actor: &models.User{ID: 22, Username: "mod", Role: models.RoleModerator},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockCommentRepo()
			repo.comments[8] = &models.Comment{
				ID: 8, ReviewID: 3, AuthorID: 20, AuthorUsername: "carol",
				Text: "agreed", PubDate: time.Now(),
			}
			anchor := &mockReviewAnchor{review: &models.Review{ID: 3, TitleID: 5}}
			svc := newTestCommentService(repo, anchor)

			text := "on reflection, disagree"
			comment, err := svc.Update(context.Background(), tt.actor, 5, 3, 8,
				&models.UpdateCommentRequest{Text: &text})

			if tt.forbidden {
				assert.ErrorIs(t, err, models.ErrForbidden)
				assert.Nil(t, comment)
				assert.Nil(t, repo.updated)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "on reflection, disagree", comment.Text)
				assert.Equal(t, 20, comment.AuthorID)
			}
		})
	}
}

func TestCommentService_Delete_Policy(t *testing.T) {
	repo := newMockCommentRepo()
	repo.comments[8] = &models.Comment{ID: 8, ReviewID: 3, AuthorID: 20}
	anchor := &mockReviewAnchor{review: &models.Review{ID: 3, TitleID: 5}}
	svc := newTestCommentService(repo, anchor)

	stranger := &models.User{ID: 21, Username: "dave", Role: models.RoleUser}
	assert.ErrorIs(t, svc.Delete(context.Background(), stranger, 5, 3, 8), models.ErrForbidden)

	author := &models.User{ID: 20, Username: "carol", Role: models.RoleUser}
	require.NoError(t, svc.Delete(context.Background(), author, 5, 3, 8))
	assert.Equal(t, []int{8}, repo.deleted)
}

func TestCommentService_List_UnknownReview(t *testing.T) {
	svc := newTestCommentService(newMockCommentRepo(), &mockReviewAnchor{})

	comments, err := svc.List(context.Background(), 5, 3, 1, 20)

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, comments)
}
