package database

import "campuspass.io/infrastructure/database/connection"

func SetUpDatabase() {
	connection.ConnectToDatabase()
}
