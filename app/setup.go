package app

import (
	"fmt"

	"github.com/rjoshi/todo-manager/api"
	"github.com/rjoshi/todo-manager/config"
	"github.com/rjoshi/todo-manager/database"
	"github.com/rjoshi/todo-manager/router"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Open the embedded SQLite database
	store, err := database.StartGORM()
	if err != nil {
		print("Unable to open the SQLite database file\n")
		print("Check that DB_PATH points to a writable location\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	// Defer closing DB
	defer store.Close()

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes (security middleware is attached there)
	router.SetupRoutes(app, store)

	// Get the PORT & Start the Server
	return server.Run()
}
