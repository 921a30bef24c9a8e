package session

import (
	"sync"
	"time"

	"adstudio/internal/campaign"
)

// Session is one user's in-memory studio state: brand inputs, the last
// successful campaign, the latest visual per variant, and the advisor
// transcript. Failed calls never write here, so prior state survives
// any failure untouched.
type Session struct {
	UserID       int64
	Brand        campaign.BrandProfile
	Campaign     *campaign.CampaignData
	Visuals      map[int]campaign.Image
	History      []campaign.Message
	LastActivity time.Time
}

type Options struct {
	MaxHistoryMessages int
}

type Store struct {
	mu         sync.Mutex
	sessions   map[int64]*Session
	maxHistory int
}

func NewStore(opts Options) *Store {
	maxHistory := opts.MaxHistoryMessages
	if maxHistory <= 0 {
		maxHistory = 20
	}

	return &Store{
		sessions:   make(map[int64]*Session),
		maxHistory: maxHistory,
	}
}

func (s *Store) Reset(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
}

func (s *Store) Brand(userID int64) campaign.BrandProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.getOrCreateLocked(userID).Brand
}

func (s *Store) SetBrand(userID int64, brand campaign.BrandProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.getOrCreateLocked(userID).Brand = brand
}

func (s *Store) SetLogo(userID int64, logo campaign.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.getOrCreateLocked(userID).Brand.Logo = &logo
}

// SetCampaign replaces the stored campaign and drops visuals from the
// previous one; variant indexes only mean anything per campaign.
func (s *Store) SetCampaign(userID int64, data campaign.CampaignData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(userID)
	sess.Campaign = &data
	sess.Visuals = make(map[int]campaign.Image)
}

func (s *Store) Campaign(userID int64) (campaign.CampaignData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(userID)
	if sess.Campaign == nil {
		return campaign.CampaignData{}, false
	}
	return *sess.Campaign, true
}

func (s *Store) SetVisual(userID int64, variant int, img campaign.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(userID)
	if sess.Visuals == nil {
		sess.Visuals = make(map[int]campaign.Image)
	}
	sess.Visuals[variant] = img
}

func (s *Store) Visual(userID int64, variant int) (campaign.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(userID)
	img, ok := sess.Visuals[variant]
	return img, ok
}

func (s *Store) HistorySnapshot(userID int64) []campaign.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(userID)
	history := make([]campaign.Message, len(sess.History))
	copy(history, sess.History)
	return history
}

func (s *Store) AppendHistory(userID int64, msgs ...campaign.Message) {
	if len(msgs) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(userID)
	sess.History = append(sess.History, msgs...)
	if len(sess.History) > s.maxHistory {
		sess.History = sess.History[len(sess.History)-s.maxHistory:]
	}
}

func (s *Store) getOrCreateLocked(userID int64) *Session {
	if sess, ok := s.sessions[userID]; ok {
		sess.LastActivity = time.Now()
		return sess
	}

	sess := &Session{
		UserID:       userID,
		Visuals:      make(map[int]campaign.Image),
		LastActivity: time.Now(),
	}
	s.sessions[userID] = sess
	return sess
}
