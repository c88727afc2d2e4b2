package service

import (
	"runpal_backend/internal/model"
)

// LeaderboardEntry 勋章余额排行榜条目
type LeaderboardEntry struct {
	Rank   int                  `json:"rank"`
	User   string               `json:"user"`
	Stage  model.CharacterStage `json:"stage"`
	Medals int                  `json:"medals"`
	Avatar string               `json:"avatar,omitempty"`
}

// CharacterService 伙伴状态查询与排行榜
type CharacterService struct {
	Characters CharacterStore
	Users      UserStore
}

func NewCharacterService(characters CharacterStore, users UserStore) *CharacterService {
	return &CharacterService{Characters: characters, Users: users}
}

func (s *CharacterService) GetByUserID(userID uint) (*model.Character, error) {
	return s.Characters.FindByUserID(userID)
}

// Leaderboard 按勋章余额取前 limit 名
func (s *CharacterService) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	characters, err := s.Characters.TopByMedals(limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(characters))
	for _, c := range characters {
		ids = append(ids, c.UserID)
	}
	users, err := s.Users.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(characters))
	for i, c := range characters {
		u := users[c.UserID]
		entries[i] = LeaderboardEntry{
			Rank:   i + 1,
			User:   u.Name,
			Stage:  c.Stage,
			Medals: c.Medals,
			Avatar: u.Avatar,
		}
	}
	return entries, nil
}
