package console

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/meridianbank/console/internal/api"
	"github.com/meridianbank/console/internal/models"
	"github.com/meridianbank/console/internal/money"
	"github.com/meridianbank/console/internal/receipt"
	"github.com/meridianbank/console/internal/search"
	"github.com/meridianbank/console/internal/session"
)

// SubmitDeposit validates the deposit form and submits it. On success the
// form is cleared; on failure it is preserved so the user can correct and
// resubmit. A stale completion (an older submission finishing after a newer
// one started) is discarded.
func (c *Console) SubmitDeposit(ctx context.Context) error {
	if err := c.validate.Struct(&c.DepositForm); err != nil {
		return fmt.Errorf("deposit: account number and a valid amount are required")
	}
	req, err := parseMove(c.DepositForm)
	if err != nil {
		return err
	}

	token := c.depositGuard.Begin()
	msg, err := c.money.Deposit(ctx, money.Deposit(req))
	if !c.depositGuard.Current(token) {
		return nil
	}
	if err != nil {
		if err == api.ErrLoginRequired {
			return err
		}
		return fmt.Errorf("%s", api.UserMessage(err, "deposit"))
	}

	c.DepositForm = MoveForm{}
	fmt.Fprintln(c.out, msg)
	return nil
}

// SubmitWithdraw mirrors SubmitDeposit for withdrawals.
func (c *Console) SubmitWithdraw(ctx context.Context) error {
	if err := c.validate.Struct(&c.WithdrawForm); err != nil {
		return fmt.Errorf("withdrawal: account number and a valid amount are required")
	}
	req, err := parseMove(c.WithdrawForm)
	if err != nil {
		return err
	}

	token := c.withdrawGuard.Begin()
	msg, err := c.money.Withdraw(ctx, money.Withdraw(req))
	if !c.withdrawGuard.Current(token) {
		return nil
	}
	if err != nil {
		if err == api.ErrLoginRequired {
			return err
		}
		return fmt.Errorf("%s", api.UserMessage(err, "withdrawal"))
	}

	c.WithdrawForm = MoveForm{}
	fmt.Fprintln(c.out, msg)
	return nil
}

// SubmitTransfer submits the transfer form and renders the receipt from the
// returned credit/debit pair.
func (c *Console) SubmitTransfer(ctx context.Context) error {
	if err := c.validate.Struct(&c.TransferForm); err != nil {
		return fmt.Errorf("transfer: accounts, amount and a transfer type are required")
	}

	from, err := parseNumber("from account", c.TransferForm.FromAccount)
	if err != nil {
		return err
	}
	to, err := parseNumber("to account", c.TransferForm.ToAccount)
	if err != nil {
		return err
	}
	amount, err := parseAmount(c.TransferForm.Amount)
	if err != nil {
		return err
	}

	token := c.transferGuard.Begin()
	result, err := c.money.Transfer(ctx, money.Transfer{
		FromAccount: from,
		ToAccount:   to,
		Amount:      amount,
		Type:        models.TxType(c.TransferForm.Type),
		IFSCCode:    c.TransferForm.IFSCCode,
	})
	if !c.transferGuard.Current(token) {
		return nil
	}
	if err != nil {
		if err == api.ErrLoginRequired {
			return err
		}
		return fmt.Errorf("%s", api.UserMessage(err, "transfer"))
	}

	c.TransferForm = TransferForm{}
	c.lastTransfer = result
	if result.Message != "" {
		fmt.Fprintln(c.out, result.Message)
	}
	return receipt.RenderText(c.out, receipt.Build(result.Credit, result.Debit))
}

// ExportReceipt writes the most recent transfer's receipt as a PDF.
func (c *Console) ExportReceipt() error {
	if c.lastTransfer == nil {
		return fmt.Errorf("no transfer to export yet")
	}

	layout := receipt.Build(c.lastTransfer.Credit, c.lastTransfer.Debit)
	name := fmt.Sprintf("receipt-%d.pdf", c.lastTransfer.Debit.ReferenceNumber)
	path, err := receipt.ExportPDF(layout, c.ReceiptDir, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Receipt written to %s\n", path)
	return nil
}

func (c *Console) showAccounts(ctx context.Context) error {
	accounts, err := c.Session.Accounts(ctx)
	if err != nil {
		if err == api.ErrLoginRequired {
			return err
		}
		return fmt.Errorf("%s", api.UserMessage(err, "account lookup"))
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACCOUNT\tBALANCE\tSTATUS")
	for _, a := range accounts {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", a.AccountNumber, a.Balance, a.Status)
	}
	return tw.Flush()
}

func (c *Console) editProfile(ctx context.Context) error {
	upd := struct {
		Email   string `validate:"omitempty,email"`
		Phone   string `validate:"omitempty,min=7,max=15"`
		Address string `validate:"omitempty,max=200"`
	}{
		Email:   c.prompt("Email (blank to keep)"),
		Phone:   c.prompt("Phone (blank to keep)"),
		Address: c.prompt("Address (blank to keep)"),
	}
	if err := c.validate.Struct(&upd); err != nil {
		return fmt.Errorf("profile: one of the values is not valid")
	}

	msg, err := c.Session.UpdateProfile(ctx, session.ProfileUpdate{
		Email:   upd.Email,
		Phone:   upd.Phone,
		Address: upd.Address,
	})
	if err != nil {
		if err == api.ErrLoginRequired {
			return err
		}
		return fmt.Errorf("%s", api.UserMessage(err, "profile update"))
	}
	fmt.Fprintln(c.out, msg)
	return nil
}

func (c *Console) addUser(ctx context.Context) error {
	req := struct {
		Name     string `json:"name" validate:"required,min=2"`
		Role     string `json:"role" validate:"required,oneof=ADMIN EMPLOYEE CUSTOMER"`
		Password string `json:"password" validate:"required,min=8"`
	}{
		Name:     c.prompt("Name"),
		Role:     c.prompt("Role (ADMIN/EMPLOYEE/CUSTOMER)"),
		Password: c.prompt("Password"),
	}
	if err := c.validate.Struct(&req); err != nil {
		return fmt.Errorf("user: name, role and a password of 8+ characters are required")
	}

	var resp struct {
		Message string             `json:"message"`
		User    models.UserProfile `json:"user"`
	}
	role := c.Session.Profile().Role
	if err := c.client.Post(ctx, fmt.Sprintf("/%s/users", role.PathSegment()), req, &resp); err != nil {
		if err == api.ErrLoginRequired {
			return err
		}
		return fmt.Errorf("%s", api.UserMessage(err, "user creation"))
	}
	fmt.Fprintln(c.out, resp.Message)
	return nil
}

func (c *Console) openAccount(ctx context.Context) error {
	customerID, err := parseNumber("customer ID", c.prompt("Customer ID"))
	if err != nil {
		return err
	}
	opening, err := parseAmount(c.prompt("Opening balance"))
	if err != nil {
		return err
	}

	req := map[string]any{"customer_id": customerID, "opening_balance": opening}
	var resp struct {
		Message string         `json:"message"`
		Account models.Account `json:"account"`
	}
	role := c.Session.Profile().Role
	if err := c.client.Post(ctx, fmt.Sprintf("/%s/accounts", role.PathSegment()), req, &resp); err != nil {
		if err == api.ErrLoginRequired {
			return err
		}
		return fmt.Errorf("%s", api.UserMessage(err, "account opening"))
	}
	fmt.Fprintln(c.out, resp.Message)
	return nil
}

func (c *Console) runSearch(ctx context.Context) error {
	mode := c.prompt("Search mode (id/filter)")
	switch mode {
	case "id":
		c.engine.SetMode(search.ModeByID)
		c.engine.SetInputs(search.Inputs{
			TransactionID:   c.prompt("Transaction ID (blank if using reference)"),
			ReferenceNumber: c.prompt("Reference number (blank if using ID)"),
		})
	case "filter":
		c.engine.SetMode(search.ModeByFilter)
		c.engine.SetInputs(search.Inputs{
			CustomerID:    c.prompt("Customer ID (blank if using account)"),
			AccountNumber: c.prompt("Account number (blank if using customer)"),
			FromDate:      c.prompt("From date (YYYY-MM-DD)"),
			ToDate:        c.prompt("To date (YYYY-MM-DD)"),
		})
	default:
		return fmt.Errorf("search mode must be 'id' or 'filter'")
	}

	rs, err := c.engine.Search(ctx)
	if err != nil {
		return c.searchError(err)
	}
	return c.renderResults(rs)
}

// NextPage re-runs the stored search one page forward.
func (c *Console) NextPage(ctx context.Context) error {
	if !c.engine.HasNext() {
		return fmt.Errorf("no further pages")
	}
	rs, err := c.engine.NextPage(ctx)
	if err != nil {
		return c.searchError(err)
	}
	return c.renderResults(rs)
}

// PrevPage re-runs the stored search one page back, never below the first.
func (c *Console) PrevPage(ctx context.Context) error {
	rs, err := c.engine.PrevPage(ctx)
	if err != nil {
		return c.searchError(err)
	}
	return c.renderResults(rs)
}

func (c *Console) searchError(err error) error {
	if _, ok := err.(*search.ValidationError); ok {
		return err
	}
	if err == api.ErrLoginRequired {
		return err
	}
	return fmt.Errorf("%s", api.UserMessage(err, "transaction search"))
}

func (c *Console) renderResults(rs *search.ResultSet) error {
	if rs.Grouped() {
		for _, g := range rs.Groups {
			fmt.Fprintf(c.out, "Account %s\n", g.Key)
			if err := c.renderTable(g.Records); err != nil {
				return err
			}
		}
		return nil
	}

	if err := c.renderTable(rs.Flat); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "offset %d", c.engine.Offset())
	if c.engine.HasNext() {
		fmt.Fprint(c.out, "  (more available: 'next')")
	}
	fmt.Fprintln(c.out)
	return nil
}

func (c *Console) renderTable(records []models.TransactionRecord) error {
	if len(records) == 0 {
		fmt.Fprintln(c.out, "  no transactions")
		return nil
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TXN\tREF\tTYPE\tAMOUNT\tBALANCE\tSTATUS\tBY")
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			r.TransactionID, r.ReferenceNumber, r.Type, r.Amount, r.ClosingBalance, r.Status, r.DoneBy)
	}
	return tw.Flush()
}

type moveValues struct {
	AccountNumber int64
	Amount        decimal.Decimal
}

func parseMove(form MoveForm) (moveValues, error) {
	account, err := parseNumber("account number", form.AccountNumber)
	if err != nil {
		return moveValues{}, err
	}
	amount, err := parseAmount(form.Amount)
	if err != nil {
		return moveValues{}, err
	}
	return moveValues{AccountNumber: account, Amount: amount}, nil
}

func parseNumber(field, raw string) (int64, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", field, raw)
	}
	return n, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount: %q is not a number", raw)
	}
	return d, nil
}
