package model

// All returns every model for AutoMigrate
func All() []interface{} {
	return []interface{}{
		&User{},
		&Profile{},
		&Interest{},
		&Notification{},
		&NotificationRead{},
		&Business{},
		&BusinessPhoto{},
		&BusinessEnquiry{},
		&Ad{},
	}
}
