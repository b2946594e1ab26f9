package models

import "time"

// PropertyAgent assigns an agent to a property. The pair is unique and rows
// go away when either side is deleted.
type PropertyAgent struct {
	ID         uint      `gorm:"primaryKey"`
	PropertyID uint      `gorm:"not null;uniqueIndex:idx_property_agent_pair;index"`
	Property   *Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	AgentID    uint      `gorm:"not null;uniqueIndex:idx_property_agent_pair;index"`
	Agent      *User     `gorm:"foreignKey:AgentID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (PropertyAgent) TableName() string {
	return "property_agents"
}
