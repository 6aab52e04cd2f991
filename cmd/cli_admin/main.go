package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"campus-identity/internal/config"
	"campus-identity/internal/db"
	"campus-identity/internal/domain"
	"campus-identity/internal/repository"
	"campus-identity/internal/service"
)

// cli_admin crea la primera cuenta admin y permite inspeccionar o borrar
// cuentas sin pasar por la API.
func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	directoryPool, err := db.NewPool(ctx, cfg.DirectoryDatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer directoryPool.Close()

	jwtSvc := service.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	userSvc := service.NewUserService(
		logger,
		repository.NewPgUserRepository(pool),
		repository.NewPgDirectoryRepository(directoryPool),
		jwtSvc,
		nil,
	)

	for {
		fmt.Println("\n===== Campus Identity Admin =====")
		fmt.Println("[1] Crear admin")
		fmt.Println("[2] Ver cuenta")
		fmt.Println("[3] Borrar cuenta")
		fmt.Println("[4] Salir")
		fmt.Print("Selecciona una opcion: ")

		switch readLine(reader) {
		case "1":
			if err := createAdminFlow(ctx, reader, userSvc); err != nil {
				fmt.Printf("Error creando admin: %v\n", err)
			}
		case "2":
			if err := showAccountFlow(ctx, reader, userSvc); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
		case "3":
			id := prompt(reader, "ID de usuario: ")
			if prompt(reader, "Confirmar borrado [s/N]: ") != "s" {
				fmt.Println("Cancelado.")
				continue
			}
			if err := userSvc.DeleteUser(ctx, id); err != nil {
				fmt.Printf("Error borrando: %v\n", err)
				continue
			}
			fmt.Println("Cuenta borrada.")
		case "4", "":
			return
		default:
			fmt.Println("Opcion invalida.")
		}
	}
}

func createAdminFlow(ctx context.Context, reader *bufio.Reader, userSvc *service.UserService) error {
	account, err := userSvc.Register(ctx, service.RegisterInput{
		Email:     prompt(reader, "Email: "),
		Password:  prompt(reader, "Password: "),
		Role:      domain.RoleAdmin,
		FirstName: prompt(reader, "Nombre: "),
		LastName:  prompt(reader, "Apellido: "),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Admin creado: %s (ID: %s)\n", account.User.Email, account.User.ID)
	return nil
}

func showAccountFlow(ctx context.Context, reader *bufio.Reader, userSvc *service.UserService) error {
	account, err := userSvc.GetAccount(ctx, prompt(reader, "ID de usuario: "))
	if err != nil {
		return err
	}
	u := account.User
	fmt.Printf("%s %s <%s> rol=%s proveedor=%s verificado=%t\n", u.FirstName, u.LastName, u.Email, u.Role, u.LoginProvider, u.IsVerified)
	switch {
	case account.Student != nil:
		fmt.Printf("Matricula: %s  Cohorte: %d  Curso: %s\n", account.Student.RegistrationNumber, account.Student.BatchYear, account.Student.CourseID)
	case account.Teacher != nil:
		fmt.Printf("Legajo: %s  Cargo: %s\n", account.Teacher.EmployeeID, account.Teacher.Designation)
	}
	return nil
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	return readLine(reader)
}

func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
