package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
)

// Notification stores in-app notification payloads. A nil UserID marks an
// operator notification surfaced on the admin feed.
type Notification struct {
	ID        uuid.UUID                  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    *uuid.UUID                 `gorm:"column:user_id;type:uuid;index"`
	Type      enums.NotificationType     `gorm:"type:notification_type;not null"`
	Priority  enums.NotificationPriority `gorm:"type:notification_priority;not null;default:'normal'"`
	Title     string                     `gorm:"type:text;not null"`
	Message   string                     `gorm:"type:text;not null"`
	Data      json.RawMessage            `gorm:"column:data;type:jsonb"`
	ReadAt    *time.Time                 `gorm:"type:timestamptz"`
	CreatedAt time.Time                  `gorm:"type:timestamptz;default:now()"`
}
