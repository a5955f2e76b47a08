package graph

const clearDatabase = `MATCH (n) DETACH DELETE n`

const createNetwork = `
CREATE (alice:Person {name: 'Alice', age: 30, joined: datetime()})
CREATE (bob:Person {name: 'Bob', age: 35, joined: datetime()})
CREATE (charlie:Person {name: 'Charlie', age: 25, joined: datetime()})
CREATE (david:Person {name: 'David', age: 28, joined: datetime()})

CREATE (alice)-[:FRIENDS {since: datetime()}]->(bob)
CREATE (bob)-[:FRIENDS {since: datetime()}]->(charlie)
CREATE (charlie)-[:FRIENDS {since: datetime()}]->(david)
CREATE (alice)-[:FRIENDS {since: datetime()}]->(david)

CREATE (post1:Post {content: 'Hello Neo4j!', created: datetime()})
CREATE (post2:Post {content: 'Graph databases are awesome', created: datetime()})

CREATE (alice)-[:POSTED]->(post1)
CREATE (bob)-[:POSTED]->(post2)
CREATE (charlie)-[:LIKED {timestamp: datetime()}]->(post1)
CREATE (david)-[:LIKED {timestamp: datetime()}]->(post1)`

const friendsOfFriends = `
MATCH (person:Person {name: $name})-[:FRIENDS]->(friend)-[:FRIENDS]->(fof)
WHERE fof <> person
RETURN DISTINCT fof.name AS name`

const popularPosts = `
MATCH (post:Post)<-[like:LIKED]-()
WITH post, count(like) AS likes
RETURN post.content AS content, likes
ORDER BY likes DESC`

const shortestPath = `
MATCH path = shortestPath((start:Person {name: $from})-[:FRIENDS*]-(end:Person {name: $to}))
RETURN [node IN nodes(path) | node.name] AS path`

const friendRecommendations = `
MATCH (person:Person {name: $name})-[:FRIENDS]->(friend)-[:FRIENDS]->(candidate)
WHERE NOT (person)-[:FRIENDS]->(candidate)
  AND person <> candidate
WITH candidate, count(friend) AS common_friends
RETURN candidate.name AS recommended_friend, common_friends
ORDER BY common_friends DESC`

const postRecommendations = `
MATCH (person:Person {name: $name})-[:FRIENDS]->(friend)-[:LIKED]->(post:Post)
WHERE NOT (person)-[:LIKED]->(post)
  AND NOT (person)-[:POSTED]->(post)
WITH post, count(friend) AS friend_likes
RETURN post.content AS content, friend_likes
ORDER BY friend_likes DESC`

const projectionName = "socialNetwork"

const dropProjection = `CALL gds.graph.drop($graph, false) YIELD graphName RETURN graphName`

const projectGraph = `CALL gds.graph.project($graph, 'Person', 'FRIENDS') YIELD graphName RETURN graphName`

const writePageRank = `
CALL gds.pageRank.write($graph, {writeProperty: 'pageRank'})
YIELD nodePropertiesWritten
RETURN nodePropertiesWritten`

const readPageRank = `
MATCH (p:Person)
RETURN p.name AS name, p.pageRank AS rank
ORDER BY rank DESC`
