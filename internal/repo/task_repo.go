package repo

import (
	"context"
	"time"

	dom "Tracker/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const tasksCollection = "tasks"

// TaskRepo provides task persistence. Every method except Create takes the
// owner id and matches it together with the task id, so a task that exists
// but belongs to someone else is indistinguishable from a missing one
// (mongo.ErrNoDocuments either way).
type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	GetByID(ctx context.Context, ownerID, id primitive.ObjectID) (dom.Task, error)
	List(ctx context.Context, ownerID primitive.ObjectID, f dom.TaskFilter) ([]dom.Task, error)
	Replace(ctx context.Context, ownerID, id primitive.ObjectID, t dom.Task) (dom.Task, error)
	SetArchived(ctx context.Context, ownerID, id primitive.ObjectID, archived bool) (dom.Task, error)
	ReplaceSubtasks(ctx context.Context, ownerID, id primitive.ObjectID, subtasks []dom.Subtask) (dom.Task, error)
	Delete(ctx context.Context, ownerID, id primitive.ObjectID) error
}

type MongoTaskRepo struct {
	col *mongo.Collection
}

func NewMongoTaskRepo(db *mongo.Database) *MongoTaskRepo {
	return &MongoTaskRepo{col: db.Collection(tasksCollection)}
}

// listFilter builds the owner-scoped query document. The owner predicate is
// unconditional; each filter field adds a predicate only when present.
func listFilter(ownerID primitive.ObjectID, f dom.TaskFilter) bson.M {
	filter := bson.M{"ownerId": ownerID}
	if f.Status != nil {
		filter["status"] = *f.Status
	}
	if f.Priority != nil {
		filter["priority"] = *f.Priority
	}
	if f.Archived != nil {
		filter["archived"] = *f.Archived
	}
	return filter
}

// listSort orders by due date ascending, ties broken by newest created first.
func listSort() bson.D {
	return bson.D{{Key: "dueDate", Value: 1}, {Key: "createdAt", Value: -1}}
}

func ownedFilter(ownerID, id primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "ownerId": ownerID}
}

func (r *MongoTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Subtasks == nil {
		t.Subtasks = []dom.Subtask{}
	}
	if _, err := r.col.InsertOne(ctx, t); err != nil {
		return dom.Task{}, err
	}
	return t, nil
}

func (r *MongoTaskRepo) GetByID(ctx context.Context, ownerID, id primitive.ObjectID) (dom.Task, error) {
	var t dom.Task
	err := r.col.FindOne(ctx, ownedFilter(ownerID, id)).Decode(&t)
	return t, err
}

func (r *MongoTaskRepo) List(ctx context.Context, ownerID primitive.ObjectID, f dom.TaskFilter) ([]dom.Task, error) {
	cur, err := r.col.Find(ctx, listFilter(ownerID, f), options.Find().SetSort(listSort()))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var list []dom.Task
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *MongoTaskRepo) Replace(ctx context.Context, ownerID, id primitive.ObjectID, t dom.Task) (dom.Task, error) {
	t.ID = id
	t.OwnerID = ownerID
	t.UpdatedAt = time.Now().UTC()
	if t.Subtasks == nil {
		t.Subtasks = []dom.Subtask{}
	}
	var out dom.Task
	err := r.col.FindOneAndReplace(ctx, ownedFilter(ownerID, id), t,
		options.FindOneAndReplace().SetReturnDocument(options.After),
	).Decode(&out)
	return out, err
}

func (r *MongoTaskRepo) SetArchived(ctx context.Context, ownerID, id primitive.ObjectID, archived bool) (dom.Task, error) {
	update := bson.M{"$set": bson.M{"archived": archived, "updatedAt": time.Now().UTC()}}
	var out dom.Task
	err := r.col.FindOneAndUpdate(ctx, ownedFilter(ownerID, id), update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	return out, err
}

func (r *MongoTaskRepo) ReplaceSubtasks(ctx context.Context, ownerID, id primitive.ObjectID, subtasks []dom.Subtask) (dom.Task, error) {
	if subtasks == nil {
		subtasks = []dom.Subtask{}
	}
	update := bson.M{"$set": bson.M{"subtasks": subtasks, "updatedAt": time.Now().UTC()}}
	var out dom.Task
	err := r.col.FindOneAndUpdate(ctx, ownedFilter(ownerID, id), update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	return out, err
}

func (r *MongoTaskRepo) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, ownedFilter(ownerID, id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
