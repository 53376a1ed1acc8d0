package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"realdeal/internal/model"
	"realdeal/internal/pkg/cache"
	"realdeal/internal/repository"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func errRecordNotFound() error {
	return gorm.ErrRecordNotFound
}

// memStore 测试用内存缓存后端
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return b, nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *memStore) DelPrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			delete(s.data, k)
		}
	}
	return nil
}

func newTestCache() *cache.Coordinator {
	return cache.NewCoordinator(newMemStore(), 0)
}

func duplicateKeyError() error {
	return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
}

// fakeUserRepo 内存用户档案仓库
type fakeUserRepo struct {
	repository.UserProfileRepo
	mu    sync.Mutex
	users map[string]*model.UserProfile
}

func newFakeUserRepo(users ...*model.UserProfile) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*model.UserProfile)}
	for _, u := range users {
		r.users[u.UserID] = u
	}
	return r
}

func (s *fakeUserRepo) CreateUser(_ context.Context, user *model.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.UserID]; ok {
		return duplicateKeyError()
	}
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return duplicateKeyError()
		}
	}
	s.users[user.UserID] = user
	return nil
}

func (s *fakeUserRepo) GetUserById(_ context.Context, id string) (*model.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id], nil
}

func (s *fakeUserRepo) GetUserByIds(_ context.Context, ids []string) ([]*model.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := make([]*model.UserProfile, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			found = append(found, u)
		}
	}
	return found, nil
}

func (s *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*model.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeUserRepo) ApplyProgress(_ context.Context, id string, apply func(*model.UserProfile) error) (*model.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, errRecordNotFound()
	}
	if err := apply(user); err != nil {
		return nil, err
	}
	clone := *user
	return &clone, nil
}

func (s *fakeUserRepo) ClaimDailyExp(_ context.Context, id string, today time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return false, nil
	}
	day := today.Format("2006-01-02")
	if user.LastDailyExp != nil && user.LastDailyExp.Format("2006-01-02") >= day {
		return false, nil
	}
	marked, _ := time.Parse("2006-01-02", day)
	user.LastDailyExp = &marked
	return true, nil
}

// fakeNotifier 记录等级变动回调
type fakeNotifier struct {
	mu     sync.Mutex
	events [][3]interface{}
}

func (s *fakeNotifier) LevelChanged(_ context.Context, userID string, from, to int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, [3]interface{}{userID, from, to})
}

func (s *fakeNotifier) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// fakeExpService 记录 AddExp 调用的经验增量
type fakeExpService struct {
	mu     sync.Mutex
	deltas map[string][]int
}

func newFakeExpService() *fakeExpService {
	return &fakeExpService{deltas: make(map[string][]int)}
}

func (s *fakeExpService) AddExp(_ context.Context, userID string, delta int) (*model.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deltas[userID] = append(s.deltas[userID], delta)
	return &model.UserProfile{UserID: userID}, nil
}

func (s *fakeExpService) GrantDailyLoginExp(context.Context, string) error { return nil }

func (s *fakeExpService) totalFor(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, d := range s.deltas[userID] {
		total += d
	}
	return total
}

// fakeReactionRepo 内存互动仓库，可注入失败以模拟并发竞争
type fakeReactionRepo struct {
	mu         sync.Mutex
	postLikes  map[string]map[string]bool
	postStars  map[string]map[string]bool
	commLikes  map[string]map[string]bool
	createErrs []error // 依次弹出，模拟插入撞唯一键
	removeFail int     // 前 N 次删除返回未删除
}

func newFakeReactionRepo() *fakeReactionRepo {
	return &fakeReactionRepo{
		postLikes: make(map[string]map[string]bool),
		postStars: make(map[string]map[string]bool),
		commLikes: make(map[string]map[string]bool),
	}
}

func (s *fakeReactionRepo) exists(table map[string]map[string]bool, id uuid.UUID, userID string) bool {
	if users, ok := table[id.String()]; ok {
		return users[userID]
	}
	return false
}

func (s *fakeReactionRepo) create(table map[string]map[string]bool, id uuid.UUID, userID string) error {
	if len(s.createErrs) > 0 {
		err := s.createErrs[0]
		s.createErrs = s.createErrs[1:]
		return err
	}
	if s.exists(table, id, userID) {
		return duplicateKeyError()
	}
	if table[id.String()] == nil {
		table[id.String()] = make(map[string]bool)
	}
	table[id.String()][userID] = true
	return nil
}

func (s *fakeReactionRepo) remove(table map[string]map[string]bool, id uuid.UUID, userID string) bool {
	if s.removeFail > 0 {
		s.removeFail--
		return false
	}
	if !s.exists(table, id, userID) {
		return false
	}
	delete(table[id.String()], userID)
	return true
}

func (s *fakeReactionRepo) count(table map[string]map[string]bool, id uuid.UUID) int64 {
	return int64(len(table[id.String()]))
}

func (s *fakeReactionRepo) CheckPostLikeExists(_ context.Context, postID uuid.UUID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exists(s.postLikes, postID, userID), nil
}

func (s *fakeReactionRepo) CreatePostLike(_ context.Context, postID uuid.UUID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.create(s.postLikes, postID, userID)
}

func (s *fakeReactionRepo) DeletePostLike(_ context.Context, postID uuid.UUID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(s.postLikes, postID, userID), nil
}

func (s *fakeReactionRepo) CheckPostStarExists(_ context.Context, postID uuid.UUID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exists(s.postStars, postID, userID), nil
}

func (s *fakeReactionRepo) CreatePostStar(_ context.Context, postID uuid.UUID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.create(s.postStars, postID, userID)
}

func (s *fakeReactionRepo) DeletePostStar(_ context.Context, postID uuid.UUID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(s.postStars, postID, userID), nil
}

func (s *fakeReactionRepo) CheckCommentLikeExists(_ context.Context, commentID uuid.UUID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exists(s.commLikes, commentID, userID), nil
}

func (s *fakeReactionRepo) CreateCommentLike(_ context.Context, commentID uuid.UUID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.create(s.commLikes, commentID, userID)
}

func (s *fakeReactionRepo) DeleteCommentLike(_ context.Context, commentID uuid.UUID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(s.commLikes, commentID, userID), nil
}

func (s *fakeReactionRepo) GetPostLikesCount(_ context.Context, postID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count(s.postLikes, postID), nil
}

func (s *fakeReactionRepo) GetPostStarsCount(_ context.Context, postID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count(s.postStars, postID), nil
}

func (s *fakeReactionRepo) GetCommentLikesCount(_ context.Context, commentID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count(s.commLikes, commentID), nil
}

func (s *fakeReactionRepo) ReconcileCounts(context.Context) (int64, error) { return 0, nil }

// fakePostRepo 只实现用到的方法，其余走内嵌接口（调用即 panic，便于发现误用）
type fakePostRepo struct {
	repository.PostRepo
	mu    sync.Mutex
	posts map[string]*model.Post
}

func newFakePostRepo(posts ...*model.Post) *fakePostRepo {
	r := &fakePostRepo{posts: make(map[string]*model.Post)}
	for _, p := range posts {
		r.posts[p.ID.String()] = p
	}
	return r
}

func (s *fakePostRepo) GetPost(_ context.Context, id uuid.UUID) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.posts[id.String()], nil
}

type fakeCommentRepo struct {
	repository.CommentRepo
	mu       sync.Mutex
	comments map[string]*model.Comment
}

func newFakeCommentRepo(comments ...*model.Comment) *fakeCommentRepo {
	r := &fakeCommentRepo{comments: make(map[string]*model.Comment)}
	for _, c := range comments {
		r.comments[c.ID.String()] = c
	}
	return r
}

func (s *fakeCommentRepo) GetCommentByID(_ context.Context, id uuid.UUID) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comments[id.String()], nil
}

// fakeGenreLookup 排序测试用的静态题材表
type fakeGenreLookup struct {
	userGenres map[string][]int
	postGenres map[uuid.UUID][]int
}

func (s *fakeGenreLookup) GetUserGenreIDs(_ context.Context, userID string) ([]int, error) {
	return s.userGenres[userID], nil
}

func (s *fakeGenreLookup) GetGenreIDsByPostIDs(_ context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]int, error) {
	return s.postGenres, nil
}
