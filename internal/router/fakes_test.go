package router

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/queue"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
)

// memDB is an in-memory stand-in for the MySQL schema.  Each fake below
// exposes the slice of it one handler store interface needs.
type memDB struct {
	mu        sync.Mutex
	users     []model.User
	passwords map[uint64]string
	sessions  []memSession
	products  map[uint64]*memProduct
	nextPID   uint64
	tags      []model.Tag
	reviews   []model.Review
	cart      []memCartRow
}

type memSession struct {
	userID uint64
	token  string
	active bool
}

type memProduct struct {
	p      model.Product
	tags   []uint64
	images []string
}

type memCartRow struct {
	userID, productID uint64
	active            bool
}

func newMemDB() *memDB {
	return &memDB{passwords: map[uint64]string{}, products: map[uint64]*memProduct{}}
}

func (db *memDB) userByID(id uint64) (model.User, bool) {
	for _, u := range db.users {
		if u.ID == id && u.IsActive {
			return u, true
		}
	}
	return model.User{}, false
}

func (db *memDB) tagExists(id uint64) bool {
	for _, t := range db.tags {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (db *memDB) tagsOf(mp *memProduct) []model.Tag {
	out := []model.Tag{}
	for _, t := range db.tags {
		for _, id := range mp.tags {
			if t.ID == id {
				out = append(out, t)
			}
		}
	}
	return out
}

func (db *memDB) activeProduct(id uint64) (*memProduct, bool) {
	mp, ok := db.products[id]
	if !ok || !mp.p.IsActive {
		return nil, false
	}
	return mp, true
}

func dedupe(refs []model.TagRef) []uint64 {
	seen := map[uint64]bool{}
	var out []uint64
	for _, r := range refs {
		if !seen[r.TagID] {
			seen[r.TagID] = true
			out = append(out, r.TagID)
		}
	}
	return out
}

// ----- users -----

type fakeUsers struct{ db *memDB }

func (f fakeUsers) Create(_ context.Context, in model.NewUser) (model.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, u := range f.db.users {
		if u.UserName == in.UserName {
			return model.User{}, repository.ErrUsernameTaken
		}
	}
	u := model.User{
		ID: uint64(len(f.db.users) + 1), UserName: in.UserName, FirstName: in.FirstName,
		LastName: in.LastName, Email: in.Email, IsActive: true, CreatedAt: time.Now().UTC(),
	}
	f.db.users = append(f.db.users, u)
	f.db.passwords[u.ID] = in.Password
	return u, nil
}

func (f fakeUsers) Authenticate(_ context.Context, userName, password string) (model.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, u := range f.db.users {
		if u.UserName == userName && u.IsActive && f.db.passwords[u.ID] == password {
			return u, nil
		}
	}
	return model.User{}, repository.ErrInvalidCredentials
}

func (f fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if u, ok := f.db.userByID(id); ok {
		return u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (f fakeUsers) GetByUserName(_ context.Context, userName string) (model.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, u := range f.db.users {
		if u.UserName == userName && u.IsActive {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

// ----- sessions -----

type fakeSessions struct{ db *memDB }

func (f fakeSessions) Create(_ context.Context, userID uint64, token string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.sessions = append(f.db.sessions, memSession{userID: userID, token: token, active: true})
	return nil
}

func (f fakeSessions) HasActive(_ context.Context, userID uint64) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, s := range f.db.sessions {
		if s.userID == userID && s.active {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeSessions) DeactivateAll(_ context.Context, userID uint64) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var n int64
	for i := range f.db.sessions {
		if f.db.sessions[i].userID == userID && f.db.sessions[i].active {
			f.db.sessions[i].active = false
			n++
		}
	}
	return n, nil
}

// ----- products -----

type fakeProducts struct{ db *memDB }

func (f fakeProducts) Create(_ context.Context, in model.NewProduct) (*model.CreatedProduct, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	ids := dedupe(in.Tags)
	for _, id := range ids {
		if !f.db.tagExists(id) {
			return nil, repository.ErrUnknownReference
		}
	}
	f.db.nextPID++
	mp := &memProduct{
		p: model.Product{
			ID: f.db.nextPID, SellerID: in.SellerID, Name: in.Name, Description: in.Description,
			Price: in.Price, IsActive: true, CreatedAt: time.Now().UTC(),
		},
		tags: ids,
	}
	for _, img := range in.Images {
		mp.images = append(mp.images, img.ImageURL)
	}
	f.db.products[mp.p.ID] = mp
	out := &model.CreatedProduct{Product: mp.p}
	if len(in.Tags) > 0 {
		out.Tags = in.Tags
		out.Images = in.Images
	}
	return out, nil
}

func (f fakeProducts) Update(_ context.Context, id uint64, upd model.ProductUpdate) (*model.UpdatedProduct, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	mp, ok := f.db.activeProduct(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.Tags != nil {
		ids := dedupe(*upd.Tags)
		for _, tid := range ids {
			if !f.db.tagExists(tid) {
				return nil, repository.ErrUnknownReference
			}
		}
		mp.tags = ids
	}
	if upd.Name != nil {
		mp.p.Name = *upd.Name
	}
	if upd.Description != nil {
		mp.p.Description = *upd.Description
	}
	if upd.Price != nil {
		mp.p.Price = *upd.Price
	}
	return &model.UpdatedProduct{
		ID: mp.p.ID, Name: mp.p.Name, Description: mp.p.Description, Price: mp.p.Price,
		Tags: f.db.tagsOf(mp),
	}, nil
}

func (f fakeProducts) Delete(_ context.Context, id uint64) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	mp, ok := f.db.activeProduct(id)
	if !ok {
		return repository.ErrNotFound
	}
	mp.p.IsActive = false
	mp.tags = nil
	return nil
}

func (f fakeProducts) listing(mp *memProduct) model.ProductListing {
	seller, _ := f.db.userByID(mp.p.SellerID)
	images := []model.Image{}
	for _, url := range mp.images {
		images = append(images, model.Image{ImageURL: url})
	}
	return model.ProductListing{
		ID: mp.p.ID, SellerID: mp.p.SellerID, SellerName: seller.UserName, Name: mp.p.Name,
		Description: mp.p.Description, Price: mp.p.Price, CreatedAt: mp.p.CreatedAt,
		Tags: f.db.tagsOf(mp), Images: images,
	}
}

func (f fakeProducts) filter(keep func(*memProduct) bool) []model.ProductListing {
	out := []model.ProductListing{}
	for _, mp := range f.db.products {
		if mp.p.IsActive && keep(mp) {
			out = append(out, f.listing(mp))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f fakeProducts) All(context.Context) ([]model.ProductListing, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return f.filter(func(*memProduct) bool { return true }), nil
}

func (f fakeProducts) ByTagID(_ context.Context, tagID uint64) ([]model.ProductListing, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return f.filter(func(mp *memProduct) bool {
		for _, id := range mp.tags {
			if id == tagID {
				return true
			}
		}
		return false
	}), nil
}

func (f fakeProducts) ByID(_ context.Context, id uint64) (*model.ProductDetail, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	mp, ok := f.db.activeProduct(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	reviews := []model.Review{}
	for _, r := range f.db.reviews {
		if r.ProductID == id {
			u, _ := f.db.userByID(r.UserID)
			r.UserName = u.UserName
			reviews = append(reviews, r)
		}
	}
	return &model.ProductDetail{ProductListing: f.listing(mp), Reviews: reviews}, nil
}

func (f fakeProducts) SellerID(_ context.Context, id uint64) (uint64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	mp, ok := f.db.activeProduct(id)
	if !ok {
		return 0, repository.ErrNotFound
	}
	return mp.p.SellerID, nil
}

// ----- reviews -----

type fakeReviews struct{ db *memDB }

func (f fakeReviews) ListByProduct(_ context.Context, productID uint64) ([]model.Review, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := []model.Review{}
	for _, r := range f.db.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f fakeReviews) Create(_ context.Context, in model.NewReview) (model.Review, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, r := range f.db.reviews {
		if r.UserID == in.UserID && r.ProductID == in.ProductID {
			return model.Review{}, repository.ErrDuplicateReview
		}
	}
	r := model.Review{
		ID: uint64(len(f.db.reviews) + 1), UserID: in.UserID, ProductID: in.ProductID,
		Rating: in.Rating, ReviewText: in.ReviewText, CreatedAt: time.Now().UTC(),
	}
	f.db.reviews = append(f.db.reviews, r)
	return r, nil
}

// ----- tags -----

type fakeTags struct{ db *memDB }

func (f fakeTags) Create(_ context.Context, name string) (model.Tag, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, t := range f.db.tags {
		if t.Name == name {
			return model.Tag{}, repository.ErrTagExists
		}
	}
	t := model.Tag{ID: uint64(len(f.db.tags) + 1), Name: name}
	f.db.tags = append(f.db.tags, t)
	return t, nil
}

func (f fakeTags) All(context.Context) ([]model.Tag, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return append([]model.Tag{}, f.db.tags...), nil
}

// ----- cart -----

type fakeCart struct{ db *memDB }

func (f fakeCart) Items(_ context.Context, userID uint64) ([]model.CartItem, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := []model.CartItem{}
	for _, row := range f.db.cart {
		if row.userID != userID || !row.active {
			continue
		}
		if mp, ok := f.db.activeProduct(row.productID); ok {
			out = append(out, model.CartItem{
				ProductID: mp.p.ID, Name: mp.p.Name, Description: mp.p.Description, Price: mp.p.Price,
			})
		}
	}
	return out, nil
}

func (f fakeCart) Add(_ context.Context, userID, productID uint64) (model.CartEntry, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.activeProduct(productID); !ok {
		return model.CartEntry{}, repository.ErrNotFound
	}
	entry := model.CartEntry{UserID: userID, ProductID: productID}
	for _, row := range f.db.cart {
		if row.userID == userID && row.productID == productID && row.active {
			return entry, nil
		}
	}
	f.db.cart = append(f.db.cart, memCartRow{userID: userID, productID: productID, active: true})
	return entry, nil
}

func (f fakeCart) Remove(_ context.Context, userID, productID uint64) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	removed := false
	for i := range f.db.cart {
		row := &f.db.cart[i]
		if row.userID == userID && row.productID == productID && row.active {
			row.active = false
			removed = true
		}
	}
	return removed, nil
}

// ----- side effects -----

type recordedEvents struct {
	mu     sync.Mutex
	events []queue.CatalogEvent
	purges int
}

func (r *recordedEvents) Publish(_ context.Context, ev queue.CatalogEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordedEvents) Purge(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purges++
	return nil
}

func (r *recordedEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}
