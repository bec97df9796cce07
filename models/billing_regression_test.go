package models_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/mmrentals/rentdesk_backend/config"
	"github.com/mmrentals/rentdesk_backend/models"
	"github.com/mmrentals/rentdesk_backend/utils"
	"github.com/shopspring/decimal"
)

func setupBillingFixture(t *testing.T) context.Context {
	t.Helper()
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "rentdesk_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	ctx := context.Background()
	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUsernameInContext(ctx, "test@local")
	ctx = utils.SetUserRoleInContext(ctx, utils.RoleAdmin)
	return ctx
}

func createInvoicedContract(t *testing.T, ctx context.Context) *models.Invoice {
	t.Helper()

	building, err := models.CreateBuilding(ctx, &models.NewBuilding{
		Name:    fmt.Sprintf("Bldg %d", time.Now().UnixNano()),
		Address: "12 Hang Bun",
	})
	if err != nil {
		t.Fatalf("CreateBuilding: %v", err)
	}
	room, err := models.CreateRoom(ctx, &models.NewRoom{
		BuildingId: building.ID,
		Number:     "101",
		BasePrice:  decimal.NewFromInt(2000000),
	})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	tenant, err := models.CreateTenant(ctx, &models.NewTenant{
		FullName: "Nguyen Van A",
		Phone:    "+84912345678",
	})
	if err != nil {
		t.Fatalf("CreateTenant: %v", err)
	}
	contract, err := models.CreateContract(ctx, &models.NewContract{
		RoomId:               room.ID,
		TenantIds:            []int{tenant.ID},
		RepresentativeId:     tenant.ID,
		StartDate:            time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		EndDate:              time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		MonthlyRent:          decimal.NewFromInt(2000000),
		ElectricityUnitPrice: decimal.NewFromInt(3000),
		WaterUnitPrice:       decimal.NewFromInt(15000),
		DueDay:               5,
	})
	if err != nil {
		t.Fatalf("CreateContract: %v", err)
	}
	invoice, err := models.CreateInvoice(ctx, &models.NewInvoice{
		ContractId:         contract.ID,
		Month:              3,
		Year:               2025,
		ElectricityClosing: decimal.NewFromInt(80),
		WaterClosing:       decimal.NewFromInt(20),
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	return invoice
}

// Deleting an invoice must fail once a payment exists, including a
// payment recorded after the invoice was last read; the ledger check
// runs inside the delete transaction with the invoice row locked.
func TestDeleteInvoice_RefusedOncePaid(t *testing.T) {
	ctx := setupBillingFixture(t)
	invoice := createInvoicedContract(t, ctx)

	if _, err := models.RecordPayment(ctx, &models.NewPayment{
		InvoiceId: invoice.ID,
		Amount:    decimal.NewFromInt(500000),
		Method:    models.PaymentMethodCash,
	}); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}

	_, err := models.DeleteInvoice(ctx, invoice.ID)
	if utils.KindOf(err) != utils.KindConflict {
		t.Fatalf("delete of paid invoice: kind = %v, want conflict", utils.KindOf(err))
	}

	payments, err := models.GetInvoicePayments(ctx, invoice.ID)
	if err != nil {
		t.Fatalf("GetInvoicePayments: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("ledger rows = %d, want 1", len(payments))
	}
}

func TestDeleteInvoice_UnpaidDeletesReadingToo(t *testing.T) {
	ctx := setupBillingFixture(t)
	invoice := createInvoicedContract(t, ctx)

	if _, err := models.DeleteInvoice(ctx, invoice.ID); err != nil {
		t.Fatalf("DeleteInvoice: %v", err)
	}
	if _, err := models.GetInvoice(ctx, invoice.ID); utils.KindOf(err) != utils.KindNotFound {
		t.Fatalf("deleted invoice lookup: kind = %v, want not found", utils.KindOf(err))
	}
}

// A user row whose stored password is not a bcrypt hash (legacy import,
// truncated column) must never authenticate, whatever the submitted
// password.
func TestLogin_MalformedStoredHashDenied(t *testing.T) {
	ctx := setupBillingFixture(t)

	active := true
	user, err := models.CreateUser(ctx, &models.NewUser{
		Username: "clerk",
		Name:     "Clerk",
		Password: "proper-password",
		IsActive: &active,
		Role:     models.UserRoleStaff,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	db := config.GetDB()
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).
		UpdateColumn("password", "not-a-bcrypt-hash").Error; err != nil {
		t.Fatalf("corrupt stored hash: %v", err)
	}
	if err := user.RemoveInstanceRedis(); err != nil {
		t.Fatalf("drop user cache: %v", err)
	}

	for _, pw := range []string{"proper-password", "not-a-bcrypt-hash", ""} {
		if _, err := models.Login(ctx, "clerk", pw); utils.KindOf(err) != utils.KindUnauthorized {
			t.Fatalf("login with %q: kind = %v, want unauthorized", pw, utils.KindOf(err))
		}
	}
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("rentdesk-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("rentdesk-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=rentdesk_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
