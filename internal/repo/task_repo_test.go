package repo

import (
	"reflect"
	"testing"

	dom "Tracker/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestListFilter_OwnerAlwaysScoped(t *testing.T) {
	owner := primitive.NewObjectID()

	got := listFilter(owner, dom.TaskFilter{})
	want := bson.M{"ownerId": owner}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("no-filter query: expected %v, got %v", want, got)
	}
}

func TestListFilter_EachFieldOptional(t *testing.T) {
	owner := primitive.NewObjectID()
	status := dom.StatusCompleted
	priority := dom.PriorityHigh
	archived := false

	got := listFilter(owner, dom.TaskFilter{Status: &status, Priority: &priority, Archived: &archived})
	want := bson.M{
		"ownerId":  owner,
		"status":   dom.StatusCompleted,
		"priority": dom.PriorityHigh,
		"archived": false,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	// archived=false must produce a predicate, not an absent one.
	if _, ok := got["archived"]; !ok {
		t.Fatalf("explicit archived=false dropped from query")
	}
}

func TestListFilter_PartialFilter(t *testing.T) {
	owner := primitive.NewObjectID()
	priority := dom.PriorityLow

	got := listFilter(owner, dom.TaskFilter{Priority: &priority})
	if _, ok := got["status"]; ok {
		t.Fatalf("absent status filter must impose no constraint: %v", got)
	}
	if got["priority"] != dom.PriorityLow {
		t.Fatalf("expected priority predicate, got %v", got)
	}
}

func TestListSort_DueDateAscCreatedDesc(t *testing.T) {
	want := bson.D{{Key: "dueDate", Value: 1}, {Key: "createdAt", Value: -1}}
	if got := listSort(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestOwnedFilter_MatchesIdAndOwnerTogether(t *testing.T) {
	owner := primitive.NewObjectID()
	id := primitive.NewObjectID()

	got := ownedFilter(owner, id)
	want := bson.M{"_id": id, "ownerId": owner}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
