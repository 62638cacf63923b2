package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"foodgram-backend/internal/domains/user/model"
	"foodgram-backend/internal/shared"
	"foodgram-backend/pkg/jwt"
)

type subKey struct{ userID, authorID int64 }

// fakeRepo giữ unique email/username và (user, author) giống constraint của DB
type fakeRepo struct {
	users  map[int64]*model.User
	subs   map[subKey]int // giá trị = thứ tự subscribe
	nextID int64
	seq    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[int64]*model.User{}, subs: map[subKey]int{}}
}

func (f *fakeRepo) seed(username string) *model.User {
	f.nextID++
	u := &model.User{
		ID:        f.nextID,
		Email:     username + "@example.com",
		Username:  username,
		FirstName: strings.ToUpper(username[:1]) + username[1:],
		LastName:  "Test",
		Role:      shared.RoleUser,
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return model.ErrEmailExists
		}
		if existing.Username == u.Username {
			return model.ErrUsernameExists
		}
	}
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (f *fakeRepo) List(_ context.Context, limit, offset int) ([]model.User, int64, error) {
	all := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, limit, offset), int64(len(all)), nil
}

func (f *fakeRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeRepo) Subscribe(_ context.Context, userID, authorID int64) error {
	k := subKey{userID, authorID}
	if _, ok := f.subs[k]; ok {
		return model.ErrAlreadySubscribed
	}
	f.seq++
	f.subs[k] = f.seq
	return nil
}

func (f *fakeRepo) Unsubscribe(_ context.Context, userID, authorID int64) (bool, error) {
	k := subKey{userID, authorID}
	if _, ok := f.subs[k]; !ok {
		return false, nil
	}
	delete(f.subs, k)
	return true, nil
}

func (f *fakeRepo) SubscribedTo(_ context.Context, userID int64, authorIDs []int64) (map[int64]bool, error) {
	out := map[int64]bool{}
	for _, id := range authorIDs {
		if _, ok := f.subs[subKey{userID, id}]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (f *fakeRepo) ListSubscriptions(_ context.Context, userID int64, limit, offset int) ([]model.User, int64, error) {
	type entry struct {
		user model.User
		seq  int
	}
	var entries []entry
	for k, seq := range f.subs {
		if k.userID == userID {
			entries = append(entries, entry{*f.users[k.authorID], seq})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq > entries[j].seq })

	all := make([]model.User, 0, len(entries))
	for _, e := range entries {
		all = append(all, e.user)
	}
	return page(all, limit, offset), int64(len(all)), nil
}

func page(all []model.User, limit, offset int) []model.User {
	if offset >= len(all) {
		return []model.User{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

type fakeIssuer struct{ issued []int64 }

func (f *fakeIssuer) GenerateAccessToken(userID int64, _, _ string) (string, *jwt.Claims, error) {
	f.issued = append(f.issued, userID)
	return "token-for-user", &jwt.Claims{UserID: userID}, nil
}

type fakeRevoker struct {
	revoked map[string]time.Time
}

func (f *fakeRevoker) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	if f.revoked == nil {
		f.revoked = map[string]time.Time{}
	}
	f.revoked[tokenID] = expiresAt
	return nil
}

// fakeRecipes: recipes theo author, newest first
type fakeRecipes map[int64][]shared.RecipeShort

func (f fakeRecipes) ListShortByAuthors(_ context.Context, authorIDs []int64, limit int) (map[int64][]shared.RecipeShort, error) {
	out := map[int64][]shared.RecipeShort{}
	for _, id := range authorIDs {
		list := f[id]
		if limit > 0 && len(list) > limit {
			list = list[:limit]
		}
		if len(list) > 0 {
			out[id] = list
		}
	}
	return out, nil
}

func (f fakeRecipes) CountByAuthors(_ context.Context, authorIDs []int64) (map[int64]int, error) {
	out := map[int64]int{}
	for _, id := range authorIDs {
		if n := len(f[id]); n > 0 {
			out[id] = n
		}
	}
	return out, nil
}
