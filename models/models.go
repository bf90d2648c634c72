package models

// All returns every model of the schema in migration order
func All() []interface{} {
	return []interface{}{
		&Registration{},
		&Subsection{},
		&Unit{},
		&RoomAdmin{},
		&Room{},
		&Computer{},
		&LawyerUser{},
		&ITAnalyst{},
		&Session{},
		&SessionAnalyst{},
		&AuditLog{},
		&Report{},
	}
}
