package store

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/osjaeyoung/bbanggri-server/internal/domain"
)

// GormStore implements MessageStore on the relational schema the app
// shares with the relay (chattings / user_fcm_token / profiles / alarm).
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetLog(ctx context.Context, roomID, uuid string) (domain.ParticipantLog, error) {
	var row Chatting
	err := s.db.WithContext(ctx).
		Select("message").
		Where("room_id = ? AND unique_id_me = ?", roomID, uuid).
		First(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load log for %s in room %s: %w", uuid, roomID, err)
	}

	if len(row.Message) == 0 {
		return domain.ParticipantLog{}, nil
	}

	var messages domain.ParticipantLog
	if err := json.Unmarshal(row.Message, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode log for %s in room %s: %w", uuid, roomID, err)
	}
	return messages, nil
}

func (s *GormStore) PutLog(ctx context.Context, roomID, uuid string, messages domain.ParticipantLog, notReadCount int) error {
	data, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to encode log for %s in room %s: %w", uuid, roomID, err)
	}

	res := s.db.WithContext(ctx).
		Model(&Chatting{}).
		Where("room_id = ? AND unique_id_me = ?", roomID, uuid).
		Updates(map[string]interface{}{
			"message":        datatypes.JSON(data),
			"not_read_count": notReadCount,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to store log for %s in room %s: %w", uuid, roomID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("no chatting row for %s in room %s", uuid, roomID)
	}
	return nil
}

func (s *GormStore) UpdateSummary(ctx context.Context, roomID, uuid, lastMsg string, lastTime int64) error {
	err := s.db.WithContext(ctx).
		Model(&Chatting{}).
		Where("room_id = ? AND unique_id_me = ?", roomID, uuid).
		Updates(map[string]interface{}{
			"last_msg":       lastMsg,
			"last_chat_time": lastTime,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update summary for %s in room %s: %w", uuid, roomID, err)
	}
	return nil
}

func (s *GormStore) GetNotifiedFlag(ctx context.Context, roomID string) (bool, error) {
	var row Chatting
	err := s.db.WithContext(ctx).
		Select("is_notified").
		Where("room_id = ?", roomID).
		Order("id").
		First(&row).Error
	if err != nil {
		return false, fmt.Errorf("failed to read notified flag for room %s: %w", roomID, err)
	}
	return row.IsNotified, nil
}

func (s *GormStore) SetNotifiedFlag(ctx context.Context, roomID string) error {
	// The flag is duplicated on both participants' rows; set both.
	err := s.db.WithContext(ctx).
		Model(&Chatting{}).
		Where("room_id = ?", roomID).
		Update("is_notified", true).Error
	if err != nil {
		return fmt.Errorf("failed to set notified flag for room %s: %w", roomID, err)
	}
	return nil
}

func (s *GormStore) GetRequestID(ctx context.Context, roomID string) (string, error) {
	var row Chatting
	err := s.db.WithContext(ctx).
		Select("req_id_fk").
		Where("room_id = ?", roomID).
		Order("id").
		First(&row).Error
	if err != nil {
		return "", fmt.Errorf("failed to read request id for room %s: %w", roomID, err)
	}
	return row.ReqIDFk, nil
}

func (s *GormStore) GetNotReadCount(ctx context.Context, roomID, uuid string) (int, error) {
	var row Chatting
	err := s.db.WithContext(ctx).
		Select("not_read_count").
		Where("room_id = ? AND unique_id_me = ?", roomID, uuid).
		First(&row).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read unread count for %s in room %s: %w", uuid, roomID, err)
	}
	return row.NotReadCount, nil
}

func (s *GormStore) GetDeviceToken(ctx context.Context, uuid string) (string, error) {
	var row UserFCMToken
	err := s.db.WithContext(ctx).
		Where("unique_id = ?", uuid).
		First(&row).Error
	if err != nil {
		return "", fmt.Errorf("failed to read device token for %s: %w", uuid, err)
	}
	return row.Token, nil
}

func (s *GormStore) GetProfile(ctx context.Context, uuid string) (*domain.Profile, error) {
	var row UserProfile
	err := s.db.WithContext(ctx).
		Where("unique_id = ?", uuid).
		First(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read profile for %s: %w", uuid, err)
	}
	return &domain.Profile{
		UniqueID:   row.UniqueID,
		Name:       row.Name,
		Cellphone:  row.Cellphone,
		ProfileImg: row.ProfileImg,
		Location:   row.Location,
	}, nil
}

func (s *GormStore) InsertAlarm(ctx context.Context, alarm *domain.Alarm) error {
	row := AlarmRecord{
		UniqueIDTo:   alarm.UniqueIDTo,
		UniqueIDFrom: alarm.UniqueIDFrom,
		AlarmName:    alarm.AlarmName,
		RoomID:       alarm.RoomID,
		IsRead:       alarm.IsRead,
		AlarmTime:    alarm.AlarmTime,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert alarm for %s: %w", alarm.UniqueIDTo, err)
	}
	return nil
}
