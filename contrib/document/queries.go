package document

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AgeInterestsIndex is the compound index used by the hinted find.
var AgeInterestsIndex = bson.D{{Key: "age", Value: 1}, {Key: "interests", Value: 1}}

// InterestFilter matches users of at least minAge who share any of the
// interests.
func InterestFilter(minAge int, interests ...string) bson.D {
	return bson.D{
		{Key: "age", Value: bson.D{{Key: "$gte", Value: minAge}}},
		{Key: "interests", Value: bson.D{{Key: "$in", Value: interests}}},
	}
}

// UserOrdersPipeline joins each user with their orders and projects order
// count and total spent.
func UserOrdersPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: ordersCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "user_id"},
			{Key: "as", Value: "user_orders"},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "name", Value: 1},
			{Key: "email", Value: 1},
			{Key: "total_orders", Value: bson.D{{Key: "$size", Value: "$user_orders"}}},
			{Key: "total_spent", Value: bson.D{{Key: "$sum", Value: "$user_orders.total"}}},
		}}},
	}
}

// ProfileUpdate sets the age and appends an interest.
func ProfileUpdate(age int, interest string) bson.D {
	return bson.D{
		{Key: "$set", Value: bson.D{{Key: "age", Value: age}}},
		{Key: "$push", Value: bson.D{{Key: "interests", Value: interest}}},
	}
}

// UserIndexes returns a unique email index and the compound age/interests
// index.
func UserIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: AgeInterestsIndex},
	}
}
