package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/backoffice-api/internal/model"
	"github.com/vasapolrittideah/backoffice-api/internal/repository"
)

// In-memory repository fakes. They mirror the error semantics of the Mongo
// implementations: repository.ErrNotFound for misses and
// repository.ErrDuplicateKey for unique index violations.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func copyUser(u *model.User) *model.User {
	out := *u
	out.Roles = append([]string(nil), u.Roles...)
	out.Permissions = append([]string(nil), u.Permissions...)
	return &out
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, repository.ErrDuplicateKey
		}
	}

	stored := copyUser(user)
	stored.ID = bson.NewObjectID()
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.users[stored.ID.Hex()] = stored

	return copyUser(stored), nil
}

func (r *fakeUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	return copyUser(user), nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}

	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) UpdateUser(
	_ context.Context,
	id string,
	params repository.UpdateUserParams,
) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	if params.Email != nil {
		for otherID, other := range r.users {
			if otherID != id && other.Email == *params.Email {
				return nil, repository.ErrDuplicateKey
			}
		}
		user.Email = *params.Email
	}
	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.Surname != nil {
		user.Surname = *params.Surname
	}
	if params.PasswordHash != nil {
		user.PasswordHash = *params.PasswordHash
	}
	if params.NationalID != nil {
		user.NationalID = *params.NationalID
	}
	if params.BirthYear != nil {
		user.BirthYear = *params.BirthYear
	}
	if params.CompanyID != nil {
		user.CompanyID = *params.CompanyID
	}
	if params.TeamID != nil {
		user.TeamID = *params.TeamID
	}
	user.UpdatedAt = time.Now()

	return copyUser(user), nil
}

func (r *fakeUserRepo) DeleteUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.users, id)

	return copyUser(user), nil
}

func (r *fakeUserRepo) ListUsers(
	_ context.Context,
	params repository.FilterUsersParams,
) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []*model.User
	for _, user := range r.users {
		if params.Email != nil && user.Email != *params.Email {
			continue
		}
		if params.CompanyID != nil && user.CompanyID != *params.CompanyID {
			continue
		}
		if params.TeamID != nil && user.TeamID != *params.TeamID {
			continue
		}
		all = append(all, copyUser(user))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID.Hex() < all[j].ID.Hex() })

	limit := params.Limit
	if limit == 0 {
		limit = 10
	}

	if params.Offset >= uint64(len(all)) {
		return nil, nil
	}
	all = all[params.Offset:]
	if uint64(len(all)) > limit {
		all = all[:limit]
	}

	return all, nil
}

func (r *fakeUserRepo) SetOTP(_ context.Context, id string, code string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.OTPCode = code
	user.OTPExpiresAt = expiresAt

	return nil
}

func (r *fakeUserRepo) ConsumeOTP(_ context.Context, email, code string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email && user.OTPCode != "" && user.OTPCode == code {
			user.OTPCode = ""
			user.OTPExpiresAt = time.Time{}
			return copyUser(user), nil
		}
	}

	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) AddPermissions(_ context.Context, id string, permissions []string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	for _, perm := range permissions {
		found := false
		for _, existing := range user.Permissions {
			if existing == perm {
				found = true
				break
			}
		}
		if !found {
			user.Permissions = append(user.Permissions, perm)
		}
	}

	return copyUser(user), nil
}

func (r *fakeUserRepo) RemovePermissions(_ context.Context, id string, permissions []string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	var kept []string
	for _, existing := range user.Permissions {
		remove := false
		for _, perm := range permissions {
			if existing == perm {
				remove = true
				break
			}
		}
		if !remove {
			kept = append(kept, existing)
		}
	}
	user.Permissions = kept

	return copyUser(user), nil
}

func (r *fakeUserRepo) AddRole(_ context.Context, id string, role string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	for _, existing := range user.Roles {
		if existing == role {
			return copyUser(user), nil
		}
	}
	user.Roles = append(user.Roles, role)

	return copyUser(user), nil
}

func (r *fakeUserRepo) RemoveRole(_ context.Context, id string, role string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	var kept []string
	for _, existing := range user.Roles {
		if existing != role {
			kept = append(kept, existing)
		}
	}
	user.Roles = kept

	return copyUser(user), nil
}

func (r *fakeUserRepo) CountUsers(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) CountUsersByCompany(_ context.Context, companyID bson.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, user := range r.users {
		if user.CompanyID == companyID {
			count++
		}
	}

	return count, nil
}

func (r *fakeUserRepo) DistinctTeamIDs(_ context.Context, companyID bson.ObjectID) ([]bson.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[bson.ObjectID]struct{})
	for _, user := range r.users {
		if user.CompanyID == companyID {
			seen[user.TeamID] = struct{}{}
		}
	}

	out := make([]bson.ObjectID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}

	return out, nil
}

func (r *fakeUserRepo) DistinctCompanyIDs(_ context.Context) ([]bson.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[bson.ObjectID]struct{})
	for _, user := range r.users {
		seen[user.CompanyID] = struct{}{}
	}

	out := make([]bson.ObjectID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}

	return out, nil
}

type fakeCompanyRepo struct {
	mu        sync.Mutex
	companies map[string]*model.Company
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{companies: make(map[string]*model.Company)}
}

func (r *fakeCompanyRepo) CreateCompany(_ context.Context, company *model.Company) (*model.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *company
	stored.ID = bson.NewObjectID()
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.companies[stored.ID.Hex()] = &stored

	out := stored
	return &out, nil
}

func (r *fakeCompanyRepo) GetCompany(_ context.Context, id string) (*model.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	company, ok := r.companies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	out := *company
	return &out, nil
}

func (r *fakeCompanyRepo) UpdateCompany(
	_ context.Context,
	id string,
	params repository.UpdateCompanyParams,
) (*model.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	company, ok := r.companies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	if params.Name != nil {
		company.Name = *params.Name
	}
	if params.Balance != nil {
		company.Balance = *params.Balance
	}
	company.UpdatedAt = time.Now()

	out := *company
	return &out, nil
}

func (r *fakeCompanyRepo) DeleteCompany(_ context.Context, id string) (*model.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	company, ok := r.companies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.companies, id)

	out := *company
	return &out, nil
}

func (r *fakeCompanyRepo) ListCompanies(_ context.Context, limit, offset uint64) ([]*model.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []*model.Company
	for _, company := range r.companies {
		out := *company
		all = append(all, &out)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID.Hex() < all[j].ID.Hex() })

	if limit == 0 {
		limit = 10
	}
	if offset >= uint64(len(all)) {
		return nil, nil
	}
	all = all[offset:]
	if uint64(len(all)) > limit {
		all = all[:limit]
	}

	return all, nil
}

func (r *fakeCompanyRepo) CountCompanies(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.companies)), nil
}

type fakeTeamRepo struct {
	mu    sync.Mutex
	teams map[string]*model.Team
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[string]*model.Team)}
}

func (r *fakeTeamRepo) CreateTeam(_ context.Context, team *model.Team) (*model.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *team
	stored.ID = bson.NewObjectID()
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.teams[stored.ID.Hex()] = &stored

	out := stored
	return &out, nil
}

func (r *fakeTeamRepo) GetTeam(_ context.Context, id string) (*model.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	team, ok := r.teams[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	out := *team
	return &out, nil
}

func (r *fakeTeamRepo) UpdateTeam(
	_ context.Context,
	id string,
	params repository.UpdateTeamParams,
) (*model.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	team, ok := r.teams[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	if params.Name != nil {
		team.Name = *params.Name
	}
	if params.CompanyID != nil {
		team.CompanyID = *params.CompanyID
	}
	team.UpdatedAt = time.Now()

	out := *team
	return &out, nil
}

func (r *fakeTeamRepo) DeleteTeam(_ context.Context, id string) (*model.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	team, ok := r.teams[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.teams, id)

	out := *team
	return &out, nil
}

func (r *fakeTeamRepo) ListTeams(_ context.Context, limit, offset uint64) ([]*model.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []*model.Team
	for _, team := range r.teams {
		out := *team
		all = append(all, &out)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID.Hex() < all[j].ID.Hex() })

	if limit == 0 {
		limit = 10
	}
	if offset >= uint64(len(all)) {
		return nil, nil
	}
	all = all[offset:]
	if uint64(len(all)) > limit {
		all = all[:limit]
	}

	return all, nil
}

func (r *fakeTeamRepo) CountTeams(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.teams)), nil
}

func (r *fakeTeamRepo) CountTeamsByCompany(_ context.Context, companyID bson.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, team := range r.teams {
		if team.CompanyID == companyID {
			count++
		}
	}

	return count, nil
}

func (r *fakeTeamRepo) DistinctCompanyIDs(_ context.Context) ([]bson.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[bson.ObjectID]struct{})
	for _, team := range r.teams {
		seen[team.CompanyID] = struct{}{}
	}

	out := make([]bson.ObjectID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}

	return out, nil
}

type fakeTransactionRepo struct {
	mu           sync.Mutex
	transactions map[string]*model.Transaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{transactions: make(map[string]*model.Transaction)}
}

func (r *fakeTransactionRepo) CreateTransaction(
	_ context.Context,
	transaction *model.Transaction,
) (*model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if transaction.ReferenceNumber != "" {
		for _, existing := range r.transactions {
			if existing.ReferenceNumber == transaction.ReferenceNumber {
				return nil, repository.ErrDuplicateKey
			}
		}
	}

	stored := *transaction
	stored.ID = bson.NewObjectID()
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.transactions[stored.ID.Hex()] = &stored

	out := stored
	return &out, nil
}

func (r *fakeTransactionRepo) GetTransaction(_ context.Context, id string) (*model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	transaction, ok := r.transactions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	out := *transaction
	return &out, nil
}

func (r *fakeTransactionRepo) UpdateTransaction(
	_ context.Context,
	id string,
	params repository.UpdateTransactionParams,
) (*model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	transaction, ok := r.transactions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	if params.ReferenceNumber != nil {
		for otherID, other := range r.transactions {
			if otherID != id && other.ReferenceNumber == *params.ReferenceNumber {
				return nil, repository.ErrDuplicateKey
			}
		}
		transaction.ReferenceNumber = *params.ReferenceNumber
	}
	if params.Amount != nil {
		transaction.Amount = *params.Amount
	}
	if params.Type != nil {
		transaction.Type = *params.Type
	}
	if params.Status != nil {
		transaction.Status = *params.Status
	}
	if params.TeamID != nil {
		transaction.TeamID = params.TeamID
	}
	if params.Description != nil {
		transaction.Description = *params.Description
	}
	if params.Category != nil {
		transaction.Category = *params.Category
	}
	if params.Date != nil {
		transaction.Date = *params.Date
	}
	transaction.UpdatedAt = time.Now()

	out := *transaction
	return &out, nil
}

func (r *fakeTransactionRepo) DeleteTransaction(_ context.Context, id string) (*model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	transaction, ok := r.transactions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.transactions, id)

	out := *transaction
	return &out, nil
}

func (r *fakeTransactionRepo) ListTransactions(
	_ context.Context,
	params repository.FilterTransactionsParams,
) ([]*model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []*model.Transaction
	for _, transaction := range r.transactions {
		if params.TeamID != nil {
			if transaction.TeamID == nil || *transaction.TeamID != *params.TeamID {
				continue
			}
		}
		out := *transaction
		all = append(all, &out)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })

	limit := params.Limit
	if limit == 0 {
		limit = 10
	}
	if params.Offset >= uint64(len(all)) {
		return nil, nil
	}
	all = all[params.Offset:]
	if uint64(len(all)) > limit {
		all = all[:limit]
	}

	return all, nil
}

func (r *fakeTransactionRepo) CountBySender(_ context.Context, party model.Party) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, transaction := range r.transactions {
		if transaction.Sender == party {
			count++
		}
	}

	return count, nil
}

func (r *fakeTransactionRepo) CountByReceiver(_ context.Context, party model.Party) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, transaction := range r.transactions {
		if transaction.Receiver == party {
			count++
		}
	}

	return count, nil
}

type fakeRoleRepo struct {
	mu    sync.Mutex
	roles map[string]*model.Role

	// fetchCount tracks GetRolesByNames calls so cache behavior is observable.
	fetchCount int
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: make(map[string]*model.Role)}
}

func copyRole(role *model.Role) *model.Role {
	out := *role
	out.Permissions = append([]string(nil), role.Permissions...)
	return &out
}

func (r *fakeRoleRepo) CreateRole(_ context.Context, role *model.Role) (*model.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.roles[role.Name]; ok {
		return nil, repository.ErrDuplicateKey
	}

	stored := copyRole(role)
	stored.ID = bson.NewObjectID()
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.roles[stored.Name] = stored

	return copyRole(stored), nil
}

func (r *fakeRoleRepo) GetRoleByName(_ context.Context, name string) (*model.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	role, ok := r.roles[name]
	if !ok {
		return nil, repository.ErrNotFound
	}

	return copyRole(role), nil
}

func (r *fakeRoleRepo) GetRolesByNames(_ context.Context, names []string) ([]*model.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fetchCount++

	var out []*model.Role
	for _, name := range names {
		if role, ok := r.roles[name]; ok {
			out = append(out, copyRole(role))
		}
	}

	return out, nil
}

func (r *fakeRoleRepo) ListRoles(_ context.Context) ([]*model.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Role
	for _, role := range r.roles {
		out = append(out, copyRole(role))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (r *fakeRoleRepo) SetRolePermissions(
	_ context.Context,
	name string,
	permissions []string,
) (*model.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	role, ok := r.roles[name]
	if !ok {
		return nil, repository.ErrNotFound
	}
	role.Permissions = append([]string(nil), permissions...)
	role.UpdatedAt = time.Now()

	return copyRole(role), nil
}

type fakePermRepo struct {
	mu    sync.Mutex
	names map[string]struct{}
}

func newFakePermRepo(names ...string) *fakePermRepo {
	repo := &fakePermRepo{names: make(map[string]struct{})}
	for _, name := range names {
		repo.names[name] = struct{}{}
	}
	return repo
}

func (r *fakePermRepo) EnsurePermissions(_ context.Context, names []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		r.names[name] = struct{}{}
	}

	return nil
}

func (r *fakePermRepo) ListPermissions(_ context.Context) ([]*model.Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Permission
	for name := range r.names {
		out = append(out, &model.Permission{Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (r *fakePermRepo) AllExist(_ context.Context, names []string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		if _, ok := r.names[name]; !ok {
			return false, nil
		}
	}

	return true, nil
}

type sentEmail struct {
	to      []string
	subject string
	body    string
}

type fakeMailer struct {
	sent chan sentEmail
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan sentEmail, 8)}
}

func (m *fakeMailer) SendSimple(to []string, subject, body string) error {
	m.sent <- sentEmail{to: to, subject: subject, body: body}
	return nil
}

func (m *fakeMailer) wait(timeout time.Duration) (sentEmail, bool) {
	select {
	case email := <-m.sent:
		return email, true
	case <-time.After(timeout):
		return sentEmail{}, false
	}
}
