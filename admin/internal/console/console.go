package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gosuri/uitable"
	"github.com/juju/clock"
	"github.com/rs/zerolog"

	"github.com/Alturino/bagstore/internal/gateway"
	"github.com/Alturino/bagstore/internal/listing"
	"github.com/Alturino/bagstore/internal/log"
	productRequest "github.com/Alturino/bagstore/product/pkg/request"
)

// Console is the terminal rendition of the admin screens. Every mutation
// prints a success or failure notice and only a successful one refreshes the
// listing.
type Console struct {
	client   *gateway.Client
	tokens   gateway.FileToken
	clock    clock.Clock
	debounce time.Duration
	limit    int
	products productRequest.FindProducts

	mu  sync.Mutex
	out io.Writer
}

type Option func(*Console)

func WithClock(clk clock.Clock) Option {
	return func(con *Console) { con.clock = clk }
}

func WithDebounce(d time.Duration) Option {
	return func(con *Console) { con.debounce = d }
}

func WithLimit(limit int) Option {
	return func(con *Console) { con.limit = limit }
}

// WithProductFilter narrows every products listing to the collection and price
// range of filter. Its query is ignored.
func WithProductFilter(filter productRequest.FindProducts) Option {
	return func(con *Console) { con.products = filter }
}

func New(client *gateway.Client, tokens gateway.FileToken, out io.Writer, opts ...Option) *Console {
	con := &Console{
		client:   client,
		tokens:   tokens,
		clock:    clock.WallClock,
		debounce: listing.DefaultDebounce,
		limit:    listing.DefaultLimit,
		out:      out,
	}
	for _, opt := range opts {
		opt(con)
	}
	return con
}

func (con *Console) printf(format string, args ...interface{}) {
	con.mu.Lock()
	defer con.mu.Unlock()
	fmt.Fprintf(con.out, format, args...)
}

// notice shows backend messages as sent and local failures as their error.
func (con *Console) notice(err error, success string) {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		con.printf("failed: %s\n", gateway.Message(err))
		return
	}
	if err != nil {
		con.printf("failed: %s\n", err.Error())
		return
	}
	con.printf("%s\n", success)
}

func (con *Console) Login(c context.Context, email string, password string) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Console Login").
		Str(log.KeyEmail, email).
		Logger()

	token, err := con.client.AdminLogin(c, email, password)
	if err == nil {
		err = con.tokens.Save(token.Token)
	}
	if err != nil {
		logger.Error().Err(err).Msg(err.Error())
	}
	con.notice(err, fmt.Sprintf("logged in until %s", token.ExpiresAt.Local().Format(time.RFC1123)))
	return err
}

func (con *Console) Logout(c context.Context) error {
	err := con.client.AdminLogout(c)
	if err != nil && gateway.StatusCode(err, 0) != http.StatusUnauthorized {
		con.notice(err, "")
		return err
	}
	err = con.tokens.Clear()
	con.notice(err, "logged out")
	return err
}

// Listing builds the list controller of resource fetching through the gateway.
func (con *Console) Listing(resource string) (*listing.Controller[Item], error) {
	if _, err := gateway.LookupResource(resource); err != nil {
		return nil, err
	}
	fetch := func(c context.Context, q listing.Query) (listing.Page[Item], error) {
		if resource == "products" {
			filter := con.products
			filter.Query = q
			page, err := con.client.Products(c, filter)
			if err != nil {
				return listing.Page[Item]{}, err
			}
			return toItems(resource, page)
		}
		page, err := con.client.ListRaw(c, resource, q)
		if err != nil {
			return listing.Page[Item]{}, err
		}
		return toItems(resource, page)
	}
	return listing.NewController(
		fetch,
		columns[resource],
		listing.WithClock(con.clock),
		listing.WithDebounce(con.debounce),
		listing.WithLimit(con.limit),
	), nil
}

// Render prints the current page of ctl as a table followed by the pager.
func (con *Console) Render(ctl *listing.Controller[Item]) {
	table := uitable.New()
	table.MaxColWidth = 40
	headers := []interface{}{}
	for _, header := range ctl.Headers() {
		headers = append(headers, header)
	}
	table.AddRow(headers...)
	for _, row := range ctl.Rows() {
		cells := []interface{}{}
		for _, cell := range row {
			cells = append(cells, cell)
		}
		table.AddRow(cells...)
	}

	page := ctl.Page()
	con.mu.Lock()
	defer con.mu.Unlock()
	fmt.Fprintln(con.out, table)
	fmt.Fprintf(con.out, "page %d of %d, %d total\n", page.Page, page.TotalPages, page.Total)
}

func (con *Console) List(c context.Context, resource string, q listing.Query) error {
	ctl, err := con.Listing(resource)
	if err != nil {
		return err
	}
	if err = ctl.SetQuery(c, q); err != nil {
		con.notice(err, "")
		return err
	}
	con.Render(ctl)
	return nil
}

func (con *Console) Delete(c context.Context, resource string, id string) error {
	err := con.client.Delete(c, resource, id)
	con.notice(err, fmt.Sprintf("deleted %s %s", resource, id))
	return err
}

// Create writes a new record of resource. Images are uploaded for products only.
func (con *Console) Create(c context.Context, resource string, fields Item, images []string) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Console Create").
		Str(log.KeyResource, resource).
		Logger()

	raw, err := con.client.Create(c, resource, fields, images)
	if err != nil {
		logger.Error().Err(err).Msg(err.Error())
	}
	con.notice(err, fmt.Sprintf("created %s %s", resource, savedKey(resource, raw)))
	return err
}

// Update replaces record id of resource with fields.
func (con *Console) Update(c context.Context, resource string, id string, fields Item, images []string) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Console Update").
		Str(log.KeyResource, resource).
		Logger()

	_, err := con.client.Update(c, resource, id, fields, images)
	if err != nil {
		logger.Error().Err(err).Msg(err.Error())
	}
	con.notice(err, fmt.Sprintf("updated %s %s", resource, id))
	return err
}

func (con *Console) UpdateStatus(c context.Context, id string, status string) error {
	orderID, err := uuid.Parse(id)
	if err != nil {
		err = fmt.Errorf("order id=%s is invalid", id)
		con.printf("failed: %s\n", err.Error())
		return err
	}
	order, err := con.client.UpdateOrderStatus(c, orderID, status)
	con.notice(err, fmt.Sprintf("order %s is now %s", id, order.Status))
	return err
}

const watchHelp = "type to search, :next, :prev, :limit <n>, :filter <status>, " +
	":create <field=value>..., :update <id> <field=value>..., :delete <id>, :status <id> <status>, :quit"

// Watch runs an interactive listing of resource. Lines read from in are search
// input unless they start with a colon.
func (con *Console) Watch(c context.Context, resource string, in io.Reader) error {
	ctl, err := con.Listing(resource)
	if err != nil {
		return err
	}
	defer ctl.Stop()
	ctl.OnChange(func(p listing.Page[Item], err error) {
		if err != nil {
			con.notice(err, "")
			return
		}
		con.Render(ctl)
	})

	con.printf("%s\n", watchHelp)
	_ = ctl.Refetch(c)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-c.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := con.command(c, resource, ctl, line); quit {
				return nil
			}
		}
	}
}

func (con *Console) command(c context.Context, resource string, ctl *listing.Controller[Item], line string) bool {
	if !strings.HasPrefix(line, ":") {
		ctl.Search(c, line)
		return false
	}

	args := strings.Fields(strings.TrimPrefix(line, ":"))
	if len(args) == 0 {
		con.printf("%s\n", watchHelp)
		return false
	}
	switch args[0] {
	case "quit", "q":
		return true
	case "next":
		_ = ctl.NextPage(c)
	case "prev":
		_ = ctl.PrevPage(c)
	case "limit":
		limit, err := strconv.Atoi(strings.Join(args[1:], ""))
		if err != nil {
			con.printf("failed: limit must be a number\n")
			return false
		}
		_ = ctl.SetLimit(c, limit)
	case "filter":
		_ = ctl.SetStatus(c, strings.Join(args[1:], " "))
	case "create":
		fields, err := ParseFields(args[1:])
		if err != nil || len(fields) == 0 {
			con.printf("usage: :create <field=value>...\n")
			return false
		}
		if err = con.Create(c, resource, fields, nil); err == nil {
			_ = ctl.Refetch(c)
		}
	case "update":
		if len(args) < 3 {
			con.printf("usage: :update <%s> <field=value>...\n", keys[resource])
			return false
		}
		fields, err := ParseFields(args[2:])
		if err != nil {
			con.printf("failed: %s\n", err.Error())
			return false
		}
		if err = con.Update(c, resource, args[1], fields, nil); err == nil {
			_ = ctl.Refetch(c)
		}
	case "delete":
		if len(args) != 2 {
			con.printf("usage: :delete <%s>\n", keys[resource])
			return false
		}
		if err := con.Delete(c, resource, args[1]); err == nil {
			_ = ctl.Refetch(c)
		}
	case "status":
		if resource != "orders" || len(args) != 3 {
			con.printf("usage: :status <orderId> <status> while watching orders\n")
			return false
		}
		if err := con.UpdateStatus(c, args[1], args[2]); err == nil {
			_ = ctl.Refetch(c)
		}
	default:
		con.printf("%s\n", watchHelp)
	}
	return false
}
