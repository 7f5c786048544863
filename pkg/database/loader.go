package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"ecom-analytics/pkg/models"

	_ "github.com/go-sql-driver/mysql"
)

// Open accepts mariadb:// / mysql:// URLs as well as native driver DSNs and
// returns the connection plus the DSN actually used.
func Open(dsn string) (*sql.DB, string, error) {
	mysqlDSN, err := toMySQLDSN(dsn)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		return nil, "", err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, mysqlDSN, nil
}

func toMySQLDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "mariadb://") || strings.HasPrefix(dsn, "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		user := ""
		pass := ""
		if u.User != nil {
			user = u.User.Username()
			pw, _ := u.User.Password()
			pass = pw
		}
		host := u.Host
		db := strings.TrimPrefix(u.Path, "/")
		if user == "" || host == "" || db == "" {
			return "", fmt.Errorf("incomplete dsn (user/host/db)")
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&interpolateParams=true",
			user, pass, host, db), nil
	}
	return dsn, nil
}

// LoadDataset reads the three entity collections. Reads are ordered by id
// so the same database always yields the same dataset.
func LoadDataset(ctx context.Context, db *sql.DB) (models.Dataset, error) {
	products, err := loadProducts(ctx, db)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("load products: %w", err)
	}
	customers, err := loadCustomers(ctx, db)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("load customers: %w", err)
	}
	transactions, err := loadTransactions(ctx, db)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("load transactions: %w", err)
	}
	return models.Dataset{Products: products, Customers: customers, Transactions: transactions}, nil
}

func loadProducts(ctx context.Context, db *sql.DB) ([]models.Product, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, category, price, cost
		FROM products
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Cost); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func loadCustomers(ctx context.Context, db *sql.DB) ([]models.Customer, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, age, gender, channel, join_date
		FROM customers
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.Age, &c.Gender, &c.Channel, &c.JoinDate); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func loadTransactions(ctx context.Context, db *sql.DB) ([]models.Transaction, error) {
	items, err := loadLineItems(ctx, db)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, customer_id, order_date, total, channel, campaign
		FROM orders
		ORDER BY order_date, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var (
			t        models.Transaction
			campaign sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.CustomerID, &t.Date, &t.Total, &t.Channel, &campaign); err != nil {
			return nil, err
		}
		if campaign.Valid {
			t.Campaign = campaign.String
		}
		t.Items = items[t.ID]
		if len(t.Items) == 0 {
			return nil, fmt.Errorf("order %s has no line items", t.ID)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func loadLineItems(ctx context.Context, db *sql.DB) (map[string][]models.LineItem, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT order_id, product_id, quantity
		FROM order_items
		ORDER BY order_id, product_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]models.LineItem)
	for rows.Next() {
		var (
			orderID string
			it      models.LineItem
		)
		if err := rows.Scan(&orderID, &it.ProductID, &it.Quantity); err != nil {
			return nil, err
		}
		out[orderID] = append(out[orderID], it)
	}
	return out, rows.Err()
}
