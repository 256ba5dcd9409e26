// Package console implements the interactive terminal front-end: one
// command set per role, thin glue that validates input, calls the client
// SDK and renders responses.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/meridianbank/console/internal/api"
	"github.com/meridianbank/console/internal/fence"
	"github.com/meridianbank/console/internal/models"
	"github.com/meridianbank/console/internal/money"
	"github.com/meridianbank/console/internal/search"
	"github.com/meridianbank/console/internal/session"
)

// errSignedOut ends the command loop after a clean logout.
var errSignedOut = errors.New("signed out")

// Console drives one signed-in session. Form state lives here so a failed
// submission keeps its values for correction while a successful one clears
// them.
type Console struct {
	Session    *session.Manager
	ReceiptDir string

	DepositForm  MoveForm
	WithdrawForm MoveForm
	TransferForm TransferForm

	client   *api.Client
	validate *validator.Validate
	money    *money.Service
	engine   *search.Engine

	depositGuard  fence.Guard
	withdrawGuard fence.Guard
	transferGuard fence.Guard

	lastTransfer *money.TransferResult

	in  *bufio.Scanner
	out io.Writer
}

// MoveForm is the raw deposit/withdrawal form. Values stay text until
// submission so bad input is rejected with a message instead of a silent
// garbage value.
type MoveForm struct {
	AccountNumber string `validate:"required,number"`
	Amount        string `validate:"required"`
}

// TransferForm is the raw transfer form. IFSCCode is free-form; whether it
// may be empty for an inter-bank transfer is the backend's rule.
type TransferForm struct {
	FromAccount string `validate:"required,number"`
	ToAccount   string `validate:"required,number"`
	Amount      string `validate:"required"`
	Type        string `validate:"required,oneof=INTRA_BANK INTER_BANK"`
	IFSCCode    string
}

func New(client *api.Client, sess *session.Manager, role models.Role, receiptDir string, in io.Reader, out io.Writer) *Console {
	return &Console{
		Session:    sess,
		ReceiptDir: receiptDir,
		client:     client,
		validate:   validator.New(),
		money:      money.NewService(client, role),
		engine:     search.NewEngine(client, role),
		in:         bufio.NewScanner(in),
		out:        out,
	}
}

// Run reads commands until quit/EOF. Only the commands the signed-in role
// is entitled to are accepted.
func (c *Console) Run(ctx context.Context) error {
	profile := c.Session.Profile()
	if profile == nil {
		return api.ErrLoginRequired
	}

	fmt.Fprintf(c.out, "Signed in as %s (%s). Type 'help' for commands.\n", profile.Name, profile.Role)
	for {
		fmt.Fprintf(c.out, "%s> ", profile.Role.PathSegment())
		if !c.in.Scan() {
			return nil
		}
		cmd := strings.TrimSpace(c.in.Text())
		if cmd == "" {
			continue
		}
		if cmd == "quit" || cmd == "exit" {
			return nil
		}
		if err := c.dispatch(ctx, profile.Role, cmd); err != nil {
			if err == errSignedOut {
				return nil
			}
			if err == api.ErrLoginRequired {
				fmt.Fprintln(c.out, "Session expired; please sign in again.")
				return err
			}
			fmt.Fprintln(c.out, err.Error())
		}
	}
}

func (c *Console) dispatch(ctx context.Context, role models.Role, cmd string) error {
	switch cmd {
	case "help":
		c.printHelp(role)
	case "whoami":
		c.printProfile()
	case "refresh":
		_, err := c.Session.LoadProfile(ctx, role)
		if err != nil {
			return err
		}
		c.printProfile()
	case "edit-profile":
		return c.editProfile(ctx)
	case "accounts":
		return c.showAccounts(ctx)
	case "deposit":
		c.fillMoveForm(&c.DepositForm)
		return c.SubmitDeposit(ctx)
	case "withdraw":
		c.fillMoveForm(&c.WithdrawForm)
		return c.SubmitWithdraw(ctx)
	case "transfer":
		c.fillTransferForm()
		return c.SubmitTransfer(ctx)
	case "receipt":
		return c.ExportReceipt()
	case "find":
		return c.runSearch(ctx)
	case "next":
		return c.NextPage(ctx)
	case "prev":
		return c.PrevPage(ctx)
	case "adduser":
		if role != models.RoleAdmin {
			return fmt.Errorf("command %q requires the admin role", cmd)
		}
		return c.addUser(ctx)
	case "openaccount":
		if role == models.RoleCustomer {
			return fmt.Errorf("command %q requires a staff role", cmd)
		}
		return c.openAccount(ctx)
	case "logout":
		if err := c.logout(ctx); err != nil {
			return err
		}
		return errSignedOut
	default:
		return fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
	return nil
}

func (c *Console) printHelp(role models.Role) {
	fmt.Fprintln(c.out, "Commands: whoami, refresh, edit-profile, accounts, deposit, withdraw,")
	fmt.Fprintln(c.out, "          transfer, receipt, find, next, prev, logout, quit")
	switch role {
	case models.RoleAdmin:
		fmt.Fprintln(c.out, "Admin:    adduser, openaccount")
	case models.RoleEmployee:
		fmt.Fprintln(c.out, "Employee: openaccount")
	}
}

func (c *Console) printProfile() {
	p := c.Session.Profile()
	if p == nil {
		fmt.Fprintln(c.out, "Not signed in.")
		return
	}
	fmt.Fprintf(c.out, "User %d  %s  <%s>  %s\n", p.UserID, p.Name, p.Email, p.Role)
}

func (c *Console) logout(ctx context.Context) error {
	if err := c.Session.Logout(ctx); err != nil {
		return fmt.Errorf("%s", api.UserMessage(err, "logout"))
	}
	fmt.Fprintln(c.out, "Signed out.")
	return nil
}

func (c *Console) prompt(label string) string {
	fmt.Fprintf(c.out, "%s: ", label)
	if !c.in.Scan() {
		return ""
	}
	return strings.TrimSpace(c.in.Text())
}

func (c *Console) fillMoveForm(form *MoveForm) {
	form.AccountNumber = c.prompt("Account number")
	form.Amount = c.prompt("Amount")
}

func (c *Console) fillTransferForm() {
	c.TransferForm.FromAccount = c.prompt("From account")
	c.TransferForm.ToAccount = c.prompt("To account")
	c.TransferForm.Amount = c.prompt("Amount")
	c.TransferForm.Type = c.prompt("Type (INTRA_BANK/INTER_BANK)")
	if c.TransferForm.Type == string(models.TxInterBank) {
		c.TransferForm.IFSCCode = c.prompt("IFSC code")
	} else {
		c.TransferForm.IFSCCode = ""
	}
}
